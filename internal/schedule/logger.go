package schedule

import (
	"math"
	"sort"

	"alcyxob/fitconnect/internal/domain"
)

// LogSession tracks a client's in-progress workout log for a single day.
// It holds one ExerciseLog per exercise present at session start, free-text
// notes, an optional rating, and the session start instant (used only to
// compute elapsed duration). Abandoning a session is just dropping the
// value; nothing is persisted until the owning service saves or submits.
type LogSession struct {
	exerciseLogs []domain.ExerciseLog
	overallNotes string
	rating       int
	clock        Clock
	startedAt    int64 // Unix seconds at session creation
}

// SetUpdate is a partial update merged into one SetLog. Nil fields are
// left unchanged.
type SetUpdate struct {
	ActualReps   *int    `json:"actualReps,omitempty"`
	ActualWeight *string `json:"actualWeight,omitempty"`
	RPE          *int    `json:"rpe,omitempty"`
	Completed    *bool   `json:"completed,omitempty"`
}

// NewLogSession initializes a session for the given day. Exercises are
// walked in orderIndex order; each gets one SetLog per planned set with
// the planned weight pre-filled. Returns nil for a day with no exercises.
func NewLogSession(day domain.DayWorkout, clock Clock) *LogSession {
	if len(day.Exercises) == 0 {
		return nil
	}
	if clock == nil {
		clock = SystemClock()
	}

	exercises := make([]domain.Exercise, len(day.Exercises))
	copy(exercises, day.Exercises)
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].OrderIndex < exercises[j].OrderIndex
	})

	logs := make([]domain.ExerciseLog, 0, len(exercises))
	for _, ex := range exercises {
		sets := make([]domain.SetLog, 0, ex.Sets)
		for n := 1; n <= ex.Sets; n++ {
			sets = append(sets, domain.SetLog{
				SetNumber:    n,
				ActualReps:   0,
				ActualWeight: ex.Weight,
				RPE:          0,
				Completed:    false,
			})
		}
		logs = append(logs, domain.ExerciseLog{
			ExerciseID: ex.ID,
			Completed:  false,
			ActualSets: sets,
		})
	}

	return &LogSession{
		exerciseLogs: logs,
		clock:        clock,
		startedAt:    clock.Now().Unix(),
	}
}

// ResumeLogSession rebuilds a session from a previously saved log so a
// client can continue where saveProgress left off. Completion flags are
// re-derived rather than trusted from the stored payload.
func ResumeLogSession(saved domain.ClientWorkoutLog, clock Clock) *LogSession {
	if len(saved.ExerciseLogs) == 0 {
		return nil
	}
	if clock == nil {
		clock = SystemClock()
	}

	logs := make([]domain.ExerciseLog, len(saved.ExerciseLogs))
	for i, exLog := range saved.ExerciseLogs {
		sets := make([]domain.SetLog, len(exLog.ActualSets))
		copy(sets, exLog.ActualSets)
		exLog.ActualSets = sets
		deriveCompleted(&exLog)
		logs[i] = exLog
	}

	// Back-date the start so elapsed duration continues from the saved value.
	return &LogSession{
		exerciseLogs: logs,
		overallNotes: saved.OverallNotes,
		rating:       saved.Rating,
		clock:        clock,
		startedAt:    clock.Now().Unix() - int64(saved.Duration)*60,
	}
}

// UpdateSet merges a partial update into the matching SetLog and re-derives
// the owning exercise's completed flag. Unknown exercise or set numbers are
// a silent no-op; the UI treats stray updates as harmless.
func (s *LogSession) UpdateSet(exerciseID string, setNumber int, update SetUpdate) {
	exLog := s.findExercise(exerciseID)
	if exLog == nil {
		return
	}
	for i := range exLog.ActualSets {
		if exLog.ActualSets[i].SetNumber != setNumber {
			continue
		}
		if update.ActualReps != nil {
			exLog.ActualSets[i].ActualReps = *update.ActualReps
		}
		if update.ActualWeight != nil {
			exLog.ActualSets[i].ActualWeight = *update.ActualWeight
		}
		if update.RPE != nil {
			exLog.ActualSets[i].RPE = *update.RPE
		}
		if update.Completed != nil {
			exLog.ActualSets[i].Completed = *update.Completed
		}
		deriveCompleted(exLog)
		return
	}
}

// ToggleSetCompleted flips one set's completed flag and re-derives the
// owning exercise's completed flag.
func (s *LogSession) ToggleSetCompleted(exerciseID string, setNumber int) {
	exLog := s.findExercise(exerciseID)
	if exLog == nil {
		return
	}
	for i := range exLog.ActualSets {
		if exLog.ActualSets[i].SetNumber == setNumber {
			exLog.ActualSets[i].Completed = !exLog.ActualSets[i].Completed
			deriveCompleted(exLog)
			return
		}
	}
}

// SetExerciseNotes updates the notes on one exercise log. No-op if the
// exercise is unknown.
func (s *LogSession) SetExerciseNotes(exerciseID, notes string) {
	if exLog := s.findExercise(exerciseID); exLog != nil {
		exLog.Notes = notes
	}
}

// SetOverallNotes replaces the session's overall notes.
func (s *LogSession) SetOverallNotes(notes string) { s.overallNotes = notes }

// SetRating records the 1-5 session rating; 0 clears it.
func (s *LogSession) SetRating(rating int) { s.rating = rating }

// CompletionPercentage reports completed sets over all sets in the session.
func (s *LogSession) CompletionPercentage() int {
	totalSets := 0
	completedSets := 0
	for _, exLog := range s.exerciseLogs {
		totalSets += len(exLog.ActualSets)
		for _, set := range exLog.ActualSets {
			if set.Completed {
				completedSets++
			}
		}
	}
	if totalSets == 0 {
		return 0
	}
	return int(math.Round(float64(completedSets) / float64(totalSets) * 100))
}

// Duration returns minutes elapsed since session start, recomputed on
// demand. It is only frozen into the stored log at save/submit time.
func (s *LogSession) Duration() int {
	elapsed := s.clock.Now().Unix() - s.startedAt
	return int(math.Round(float64(elapsed) / 60))
}

// ExerciseLogs returns a copy of the session's logs in order.
func (s *LogSession) ExerciseLogs() []domain.ExerciseLog {
	logs := make([]domain.ExerciseLog, len(s.exerciseLogs))
	for i, exLog := range s.exerciseLogs {
		sets := make([]domain.SetLog, len(exLog.ActualSets))
		copy(sets, exLog.ActualSets)
		exLog.ActualSets = sets
		logs[i] = exLog
	}
	return logs
}

// BuildLog freezes the session into a ClientWorkoutLog with loggedAt=now
// and the duration captured at this instant.
func (s *LogSession) BuildLog() domain.ClientWorkoutLog {
	return domain.ClientWorkoutLog{
		LoggedAt:     s.clock.Now(),
		ExerciseLogs: s.ExerciseLogs(),
		OverallNotes: s.overallNotes,
		Duration:     s.Duration(),
		Rating:       s.rating,
	}
}

func (s *LogSession) findExercise(exerciseID string) *domain.ExerciseLog {
	for i := range s.exerciseLogs {
		if s.exerciseLogs[i].ExerciseID == exerciseID {
			return &s.exerciseLogs[i]
		}
	}
	return nil
}

// deriveCompleted enforces the derivation law: an exercise is completed
// iff every one of its sets is completed.
func deriveCompleted(exLog *domain.ExerciseLog) {
	for _, set := range exLog.ActualSets {
		if !set.Completed {
			exLog.Completed = false
			return
		}
	}
	exLog.Completed = len(exLog.ActualSets) > 0
}
