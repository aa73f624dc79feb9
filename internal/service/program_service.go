package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"
	"alcyxob/fitconnect/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrProgramAccessDenied  = errors.New("access denied to this program")
	ErrClientNotFound       = errors.New("client user not found")
	ErrClientNotManaged     = errors.New("client is not managed by this trainer")
	ErrTitleRequired        = errors.New("program title is required")
	ErrStartDateRequired    = errors.New("program start date is required")
	ErrInvalidDuration      = errors.New("program duration must be at least one week")
	ErrInvalidProgramStatus = errors.New("invalid program status")
	ErrInvalidExercise      = errors.New("invalid exercise")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrExerciseNotFound     = errors.New("exercise not found in day")
	ErrNoWorkoutToday       = errors.New("no workout scheduled for today")
)

// CreateProgramInput carries the trainer-supplied fields for a new program.
type CreateProgramInput struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"startDate"`
	DurationWeeks int       `json:"durationWeeks"`
}

// ExerciseInput is one planned exercise in a day update. ID is blank for
// new exercises and preserved for existing ones.
type ExerciseInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	Weight      string `json:"weight"`
	RestSeconds int    `json:"restSeconds"`
	Tempo       string `json:"tempo"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// UpdateDayInput replaces a day's authored content. Changing the type to
// rest clears the day's exercises regardless of what Exercises contains;
// that loss is permanent, so callers should confirm with the user first.
type UpdateDayInput struct {
	DayType   domain.DayType  `json:"dayType"`
	Notes     string          `json:"notes"`
	Exercises []ExerciseInput `json:"exercises"`
}

// ReviewInput carries trainer feedback for a submitted day.
type ReviewInput struct {
	Rating            int    `json:"rating"`
	Feedback          string `json:"feedback"`
	Encouragement     string `json:"encouragement"`
	AdjustmentsNeeded string `json:"adjustmentsNeeded"`
	NextSteps         string `json:"nextSteps"`
}

// --- Service Interface ---
type ProgramService interface {
	// Authoring
	CreateProgram(ctx context.Context, trainerID, clientID primitive.ObjectID, input CreateProgramInput) (*domain.Program, error)
	UpdateProgramStatus(ctx context.Context, trainerID, programID primitive.ObjectID, status domain.ProgramStatus) (*domain.Program, error)
	UpdateDayWorkout(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, input UpdateDayInput) (*domain.Program, error)
	ReorderExercise(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, exerciseID string, moveUp bool) (*domain.Program, error)
	CopyWeek(ctx context.Context, trainerID, programID primitive.ObjectID, sourceWeekNumber, targetWeekNumber int) (*domain.Program, error)
	DeleteProgram(ctx context.Context, trainerID, programID primitive.ObjectID) error

	// Reading
	GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error)
	GetProgramsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Program, error)
	GetProgramsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error)

	// Client-facing, ownership-checked, "today" from the injected clock.
	GetClientProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.Program, error)
	TodaysWorkout(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.DayWorkout, error)
	CurrentWeek(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.Week, *schedule.WeekProgress, error)

	// Review workflow
	PendingReviews(ctx context.Context, trainerID primitive.ObjectID) ([]schedule.PendingReview, error)
	SubmitReview(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, input ReviewInput) (*domain.Program, error)

	// Daily batch: flip today's locked days to pending on active programs.
	UnlockTodaysWorkouts(ctx context.Context) (int, error)
}

// --- Service Implementation ---

type programService struct {
	programRepo repository.ProgramRepository
	userRepo    repository.UserRepository
	clock       schedule.Clock
	newID       schedule.IDGenerator
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	userRepo repository.UserRepository,
	clock schedule.Clock,
	newID schedule.IDGenerator,
) ProgramService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	if newID == nil {
		newID = schedule.NewID
	}
	return &programService{
		programRepo: programRepo,
		userRepo:    userRepo,
		clock:       clock,
		newID:       newID,
	}
}

// === Authoring ===

// CreateProgram validates the input, generates the dated week skeleton, and
// persists a new draft program for a client managed by the trainer.
func (s *programService) CreateProgram(ctx context.Context, trainerID, clientID primitive.ObjectID, input CreateProgramInput) (*domain.Program, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.StartDate.IsZero() {
		return nil, ErrStartDateRequired
	}
	if input.DurationWeeks < 1 {
		return nil, ErrInvalidDuration
	}

	// Verify the client exists and is managed by this trainer.
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotFound
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}

	startDate := schedule.DateOnly(input.StartDate)
	program := &domain.Program{
		TrainerID:     trainerID,
		ClientID:      clientID,
		Title:         input.Title,
		Description:   input.Description,
		StartDate:     startDate,
		DurationWeeks: input.DurationWeeks,
		Status:        domain.ProgramDraft,
		Weeks:         schedule.GenerateWeeks(startDate, input.DurationWeeks, s.clock.Today()),
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// UpdateProgramStatus moves a program between draft/active/completed/paused.
func (s *programService) UpdateProgramStatus(ctx context.Context, trainerID, programID primitive.ObjectID, status domain.ProgramStatus) (*domain.Program, error) {
	switch status {
	case domain.ProgramDraft, domain.ProgramActive, domain.ProgramCompleted, domain.ProgramPaused:
	default:
		return nil, ErrInvalidProgramStatus
	}

	program, err := s.loadOwnedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	program.Status = status
	if err := s.programRepo.Replace(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// UpdateDayWorkout replaces a day's authored content (type, notes,
// exercises). The day's date, status, client log, and review are
// untouched; clients own those. Exercises are renumbered contiguously
// from 0 and new ones get generated IDs.
func (s *programService) UpdateDayWorkout(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, input UpdateDayInput) (*domain.Program, error) {
	program, err := s.loadOwnedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.FindDay(*program, weekNumber, dayOfWeek)
	if err != nil {
		return nil, err
	}

	exercises := make([]domain.Exercise, 0, len(input.Exercises))
	for i, in := range input.Exercises {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: exercise %d has no name", ErrInvalidExercise, i)
		}
		if in.Sets < 1 {
			return nil, fmt.Errorf("%w: exercise %q needs at least one set", ErrInvalidExercise, in.Name)
		}
		id := in.ID
		if id == "" {
			id = s.newID()
		}
		exercises = append(exercises, domain.Exercise{
			ID:          id,
			Name:        in.Name,
			Sets:        in.Sets,
			Reps:        in.Reps,
			Weight:      in.Weight,
			RestSeconds: in.RestSeconds,
			Tempo:       in.Tempo,
			Description: in.Description,
			Notes:       in.Notes,
			OrderIndex:  i,
		})
	}

	day.Exercises = exercises
	day.Notes = input.Notes
	day = schedule.ApplyDayType(day, input.DayType) // Rest clears exercises

	updated, err := schedule.ReplaceDay(*program, weekNumber, dayOfWeek, day)
	if err != nil {
		return nil, err
	}
	if err := s.programRepo.Replace(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ReorderExercise moves one exercise up or down within its day and
// renumbers orderIndex contiguously.
func (s *programService) ReorderExercise(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, exerciseID string, moveUp bool) (*domain.Program, error) {
	program, err := s.loadOwnedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.FindDay(*program, weekNumber, dayOfWeek)
	if err != nil {
		return nil, err
	}

	current := -1
	for i, ex := range day.Exercises {
		if ex.ID == exerciseID {
			current = i
			break
		}
	}
	if current == -1 {
		return nil, ErrExerciseNotFound
	}

	target := current + 1
	if moveUp {
		target = current - 1
	}
	if target < 0 || target >= len(day.Exercises) {
		// Already at the edge; nothing to do.
		return program, nil
	}

	exercises := make([]domain.Exercise, len(day.Exercises))
	copy(exercises, day.Exercises)
	exercises[current], exercises[target] = exercises[target], exercises[current]
	for i := range exercises {
		exercises[i].OrderIndex = i
	}
	day.Exercises = exercises

	updated, err := schedule.ReplaceDay(*program, weekNumber, dayOfWeek, day)
	if err != nil {
		return nil, err
	}
	if err := s.programRepo.Replace(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CopyWeek clones the source week's structure into the target week's slot.
// The target week's dates stay what the calendar generated; its previous
// content is overwritten. Copied days start unstarted with recomputed
// statuses and freshly generated exercise IDs.
func (s *programService) CopyWeek(ctx context.Context, trainerID, programID primitive.ObjectID, sourceWeekNumber, targetWeekNumber int) (*domain.Program, error) {
	program, err := s.loadOwnedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	var source, target *domain.Week
	for i := range program.Weeks {
		switch program.Weeks[i].WeekNumber {
		case sourceWeekNumber:
			source = &program.Weeks[i]
		case targetWeekNumber:
			target = &program.Weeks[i]
		}
	}
	if source == nil || target == nil {
		return nil, schedule.ErrWeekNotFound
	}

	copied := schedule.CopyWeek(*source, targetWeekNumber, target.StartDate, s.clock.Today(), s.newID)

	weeks := make([]domain.Week, len(program.Weeks))
	copy(weeks, program.Weeks)
	for i := range weeks {
		if weeks[i].WeekNumber == targetWeekNumber {
			weeks[i] = copied
			break
		}
	}
	program.Weeks = weeks

	if err := s.programRepo.Replace(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// DeleteProgram removes a program owned by the trainer.
func (s *programService) DeleteProgram(ctx context.Context, trainerID, programID primitive.ObjectID) error {
	err := s.programRepo.Delete(ctx, programID, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// === Reading ===

func (s *programService) GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *programService) GetProgramsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByTrainerID(ctx, trainerID)
}

func (s *programService) GetProgramsByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	return s.programRepo.GetByClientID(ctx, clientID)
}

// GetClientProgram fetches a program and verifies client assignment.
func (s *programService) GetClientProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.ClientID != clientID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

// TodaysWorkout returns the day dated today in the client's program.
func (s *programService) TodaysWorkout(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.DayWorkout, error) {
	program, err := s.GetClientProgram(ctx, clientID, programID)
	if err != nil {
		return nil, err
	}
	day, ok := schedule.TodaysWorkout(*program, s.clock.Today())
	if !ok {
		return nil, ErrNoWorkoutToday
	}
	return &day, nil
}

// CurrentWeek returns the week containing today plus its progress summary.
func (s *programService) CurrentWeek(ctx context.Context, clientID, programID primitive.ObjectID) (*domain.Week, *schedule.WeekProgress, error) {
	program, err := s.GetClientProgram(ctx, clientID, programID)
	if err != nil {
		return nil, nil, err
	}
	week, ok := schedule.CurrentWeek(*program, s.clock.Today())
	if !ok {
		return nil, nil, schedule.ErrWeekNotFound
	}
	progress := schedule.ProgressForWeek(week)
	return &week, &progress, nil
}

// === Review workflow ===

// PendingReviews lists every submitted day across the trainer's programs,
// in program/week/day order.
func (s *programService) PendingReviews(ctx context.Context, trainerID primitive.ObjectID) ([]schedule.PendingReview, error) {
	programs, err := s.programRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return schedule.PendingReviews(programs), nil
}

// SubmitReview attaches trainer feedback to a submitted day and flips it
// to reviewed.
func (s *programService) SubmitReview(ctx context.Context, trainerID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek, input ReviewInput) (*domain.Program, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	program, err := s.loadOwnedProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.FindDay(*program, weekNumber, dayOfWeek)
	if err != nil {
		return nil, err
	}

	review := domain.TrainerReview{
		ReviewedAt:        s.clock.Now(),
		Rating:            input.Rating,
		Feedback:          input.Feedback,
		Encouragement:     input.Encouragement,
		AdjustmentsNeeded: input.AdjustmentsNeeded,
		NextSteps:         input.NextSteps,
	}

	reviewed, err := schedule.AttachReview(day, review)
	if err != nil {
		return nil, err
	}

	updated, err := schedule.ReplaceDay(*program, weekNumber, dayOfWeek, reviewed)
	if err != nil {
		return nil, err
	}
	if err := s.programRepo.Replace(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// === Daily unlock sweep ===

// UnlockTodaysWorkouts flips today's locked days to pending across all
// active programs and reports how many programs changed. Idempotent:
// a second run on the same day finds nothing to flip and writes nothing.
func (s *programService) UnlockTodaysWorkouts(ctx context.Context) (int, error) {
	programs, err := s.programRepo.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	today := s.clock.Today()
	updated := 0
	for i := range programs {
		swept, changed := schedule.UnlockToday(programs[i], today)
		if !changed {
			continue
		}
		if err := s.programRepo.Replace(ctx, &swept); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// loadOwnedProgram fetches a program and verifies trainer ownership.
func (s *programService) loadOwnedProgram(ctx context.Context, trainerID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.TrainerID != trainerID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}
