package schedule

import (
	"testing"
	"time"

	"alcyxob/fitconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggableDay() domain.DayWorkout {
	return domain.DayWorkout{
		DayOfWeek: domain.Monday,
		Date:      date(2024, time.January, 1),
		DayType:   domain.DayWorkoutType,
		Status:    domain.StatusPending,
		Exercises: []domain.Exercise{
			{ID: "ex-bench", Name: "Bench Press", Sets: 3, Reps: "5", Weight: "80kg", OrderIndex: 1},
			{ID: "ex-row", Name: "Barbell Row", Sets: 2, Reps: "8", OrderIndex: 0},
		},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestNewLogSession_InitializesPerPlannedSets(t *testing.T) {
	session := NewLogSession(loggableDay(), FixedClock(date(2024, time.January, 1)))
	require.NotNil(t, session)

	logs := session.ExerciseLogs()
	require.Len(t, logs, 2)

	// Walked in orderIndex order: row (0) before bench (1).
	assert.Equal(t, "ex-row", logs[0].ExerciseID)
	assert.Len(t, logs[0].ActualSets, 2)
	assert.Equal(t, "ex-bench", logs[1].ExerciseID)
	require.Len(t, logs[1].ActualSets, 3)

	for i, set := range logs[1].ActualSets {
		assert.Equal(t, i+1, set.SetNumber)
		assert.Equal(t, 0, set.ActualReps)
		assert.Equal(t, "80kg", set.ActualWeight, "planned weight pre-filled")
		assert.False(t, set.Completed)
	}
	assert.False(t, logs[0].Completed)
}

func TestNewLogSession_NoExercises(t *testing.T) {
	day := domain.DayWorkout{DayType: domain.DayRest, Exercises: nil}
	assert.Nil(t, NewLogSession(day, FixedClock(date(2024, time.January, 1))))
}

func TestUpdateSet_MergesAndDerivesCompletion(t *testing.T) {
	session := NewLogSession(loggableDay(), FixedClock(date(2024, time.January, 1)))

	session.UpdateSet("ex-row", 1, SetUpdate{ActualReps: intPtr(8), RPE: intPtr(7), Completed: boolPtr(true)})
	logs := session.ExerciseLogs()
	assert.Equal(t, 8, logs[0].ActualSets[0].ActualReps)
	assert.Equal(t, 7, logs[0].ActualSets[0].RPE)
	assert.True(t, logs[0].ActualSets[0].Completed)
	assert.False(t, logs[0].Completed, "one of two sets done")

	session.UpdateSet("ex-row", 2, SetUpdate{ActualReps: intPtr(8), Completed: boolPtr(true)})
	logs = session.ExerciseLogs()
	assert.True(t, logs[0].Completed, "all sets done derives exercise completion")

	// Partial update leaves other fields alone.
	session.UpdateSet("ex-row", 1, SetUpdate{ActualWeight: strPtr("62.5kg")})
	logs = session.ExerciseLogs()
	assert.Equal(t, 8, logs[0].ActualSets[0].ActualReps)
	assert.Equal(t, "62.5kg", logs[0].ActualSets[0].ActualWeight)

	// Un-completing a set revokes the derived flag.
	session.UpdateSet("ex-row", 2, SetUpdate{Completed: boolPtr(false)})
	assert.False(t, session.ExerciseLogs()[0].Completed)
}

func TestUpdateSet_UnknownTargetsAreNoOps(t *testing.T) {
	session := NewLogSession(loggableDay(), FixedClock(date(2024, time.January, 1)))
	before := session.ExerciseLogs()

	session.UpdateSet("ex-ghost", 1, SetUpdate{ActualReps: intPtr(10)})
	session.UpdateSet("ex-row", 99, SetUpdate{ActualReps: intPtr(10)})
	session.ToggleSetCompleted("ex-ghost", 1)

	assert.Equal(t, before, session.ExerciseLogs())
}

func TestToggleSetCompleted_FullWorkout(t *testing.T) {
	day := domain.DayWorkout{
		Status:    domain.StatusPending,
		DayType:   domain.DayWorkoutType,
		Exercises: []domain.Exercise{{ID: "ex-1", Name: "Deadlift", Sets: 3, Reps: "5", OrderIndex: 0}},
	}
	session := NewLogSession(day, FixedClock(date(2024, time.January, 1)))

	for n := 1; n <= 3; n++ {
		session.ToggleSetCompleted("ex-1", n)
	}

	logs := session.ExerciseLogs()
	assert.True(t, logs[0].Completed)
	assert.Equal(t, 100, session.CompletionPercentage())

	// Toggling one back off drops both the derived flag and the percentage.
	session.ToggleSetCompleted("ex-1", 2)
	assert.False(t, session.ExerciseLogs()[0].Completed)
	assert.Equal(t, 67, session.CompletionPercentage())
}

func TestCompletionPercentage_AcrossExercises(t *testing.T) {
	session := NewLogSession(loggableDay(), FixedClock(date(2024, time.January, 1)))
	assert.Equal(t, 0, session.CompletionPercentage())

	session.ToggleSetCompleted("ex-row", 1)
	session.ToggleSetCompleted("ex-row", 2)
	// 2 of 5 total sets -> 40%.
	assert.Equal(t, 40, session.CompletionPercentage())
}

func TestDuration_RecomputedFromClock(t *testing.T) {
	start := time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC)
	tick := &tickingClock{now: start}

	session := NewLogSession(loggableDay(), tick)
	assert.Equal(t, 0, session.Duration())

	tick.now = start.Add(42 * time.Minute)
	assert.Equal(t, 42, session.Duration())

	tick.now = start.Add(42*time.Minute + 40*time.Second)
	assert.Equal(t, 43, session.Duration(), "rounded to nearest minute")
}

func TestBuildLog_FreezesDurationAndTimestamp(t *testing.T) {
	start := time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC)
	tick := &tickingClock{now: start}

	session := NewLogSession(loggableDay(), tick)
	session.SetOverallNotes("felt strong")
	session.SetRating(4)
	session.SetExerciseNotes("ex-bench", "paused reps")

	tick.now = start.Add(55 * time.Minute)
	log := session.BuildLog()

	assert.Equal(t, tick.now, log.LoggedAt)
	assert.Equal(t, 55, log.Duration)
	assert.Equal(t, "felt strong", log.OverallNotes)
	assert.Equal(t, 4, log.Rating)
	assert.Equal(t, "paused reps", log.ExerciseLogs[1].Notes)
}

func TestResumeLogSession_RederivesCompletion(t *testing.T) {
	saved := domain.ClientWorkoutLog{
		Duration: 20,
		ExerciseLogs: []domain.ExerciseLog{{
			ExerciseID: "ex-1",
			Completed:  true, // Lies: not all sets are completed
			ActualSets: []domain.SetLog{
				{SetNumber: 1, Completed: true},
				{SetNumber: 2, Completed: false},
			},
		}},
	}

	start := time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC)
	session := ResumeLogSession(saved, FixedClock(start))
	require.NotNil(t, session)

	logs := session.ExerciseLogs()
	assert.False(t, logs[0].Completed, "completion is derived, never trusted")
	assert.Equal(t, 20, session.Duration(), "elapsed time continues from the saved duration")

	assert.Nil(t, ResumeLogSession(domain.ClientWorkoutLog{}, FixedClock(start)))
}

func TestExerciseLogs_ReturnsCopies(t *testing.T) {
	session := NewLogSession(loggableDay(), FixedClock(date(2024, time.January, 1)))
	logs := session.ExerciseLogs()
	logs[0].ActualSets[0].ActualReps = 999

	assert.Equal(t, 0, session.ExerciseLogs()[0].ActualSets[0].ActualReps)
}

// tickingClock lets tests advance time manually.
type tickingClock struct{ now time.Time }

func (c *tickingClock) Now() time.Time   { return c.now }
func (c *tickingClock) Today() time.Time { return DateOnly(c.now) }
