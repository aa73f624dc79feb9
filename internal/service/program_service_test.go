package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wednesday of the second week of a program starting Monday 2024-01-01.
var testToday = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type programFixture struct {
	svc       ProgramService
	programs  *fakeProgramRepo
	users     *fakeUserRepo
	trainerID primitive.ObjectID
	clientID  primitive.ObjectID
}

func newProgramFixture(t *testing.T) *programFixture {
	t.Helper()
	users := newFakeUserRepo()
	programs := newFakeProgramRepo()

	trainer := users.addUser(domain.User{Name: "Coach", Email: "coach@test.io", Role: domain.RoleTrainer})
	client := users.addUser(domain.User{Name: "Athlete", Email: "athlete@test.io", Role: domain.RoleClient, TrainerID: &trainer.ID})
	require.NoError(t, users.AddClientIDToTrainer(context.Background(), trainer.ID, client.ID))

	svc := NewProgramService(programs, users, schedule.FixedClock(testToday), sequentialIDs())
	return &programFixture{
		svc:       svc,
		programs:  programs,
		users:     users,
		trainerID: trainer.ID,
		clientID:  client.ID,
	}
}

func (f *programFixture) createProgram(t *testing.T, startDate time.Time, weeks int) *domain.Program {
	t.Helper()
	program, err := f.svc.CreateProgram(context.Background(), f.trainerID, f.clientID, CreateProgramInput{
		Title:         "Strength Block",
		StartDate:     startDate,
		DurationWeeks: weeks,
	})
	require.NoError(t, err)
	return program
}

func TestCreateProgram(t *testing.T) {
	f := newProgramFixture(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	program := f.createProgram(t, start, 4)

	assert.Equal(t, domain.ProgramDraft, program.Status)
	assert.Equal(t, f.trainerID, program.TrainerID)
	assert.Equal(t, f.clientID, program.ClientID)
	require.Len(t, program.Weeks, 4)
	assert.Equal(t, start, program.Weeks[0].StartDate)
	assert.Equal(t, start.AddDate(0, 0, 6), program.Weeks[0].EndDate)

	// Days before or on testToday (Jan 10) start pending, future days locked.
	assert.Equal(t, domain.StatusPending, program.Weeks[1].Days[2].Status) // Jan 10
	assert.Equal(t, domain.StatusLocked, program.Weeks[1].Days[3].Status)  // Jan 11

	stored, err := f.programs.GetByID(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, program.Title, stored.Title)
}

func TestCreateProgramValidation(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateProgram(ctx, f.trainerID, f.clientID, CreateProgramInput{StartDate: start, DurationWeeks: 4})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.svc.CreateProgram(ctx, f.trainerID, f.clientID, CreateProgramInput{Title: "X", DurationWeeks: 4})
	assert.ErrorIs(t, err, ErrStartDateRequired)

	_, err = f.svc.CreateProgram(ctx, f.trainerID, f.clientID, CreateProgramInput{Title: "X", StartDate: start, DurationWeeks: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCreateProgramRequiresManagedClient(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	input := CreateProgramInput{Title: "X", StartDate: start, DurationWeeks: 1}

	stranger := f.users.addUser(domain.User{Name: "Other", Email: "other@test.io", Role: domain.RoleClient})
	_, err := f.svc.CreateProgram(ctx, f.trainerID, stranger.ID, input)
	assert.ErrorIs(t, err, ErrClientNotManaged)

	_, err = f.svc.CreateProgram(ctx, f.trainerID, primitive.NewObjectID(), input)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateProgramStatus(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	updated, err := f.svc.UpdateProgramStatus(ctx, f.trainerID, program.ID, domain.ProgramActive)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramActive, updated.Status)

	_, err = f.svc.UpdateProgramStatus(ctx, f.trainerID, program.ID, domain.ProgramStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidProgramStatus)

	otherTrainer := f.users.addUser(domain.User{Name: "Rival", Email: "rival@test.io", Role: domain.RoleTrainer})
	_, err = f.svc.UpdateProgramStatus(ctx, otherTrainer.ID, program.ID, domain.ProgramActive)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)
}

func TestUpdateDayWorkout(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)

	updated, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Monday, UpdateDayInput{
		DayType: domain.DayWorkoutType,
		Notes:   "Heavy day",
		Exercises: []ExerciseInput{
			{Name: "Squat", Sets: 5, Reps: "5", Weight: "100kg"},
			{Name: "Bench Press", Sets: 3, Reps: "8-12"},
		},
	})
	require.NoError(t, err)

	day, err := schedule.FindDay(*updated, 1, domain.Monday)
	require.NoError(t, err)
	require.Len(t, day.Exercises, 2)
	assert.Equal(t, "Heavy day", day.Notes)
	assert.Equal(t, 0, day.Exercises[0].OrderIndex)
	assert.Equal(t, 1, day.Exercises[1].OrderIndex)
	assert.NotEmpty(t, day.Exercises[0].ID)
	assert.NotEqual(t, day.Exercises[0].ID, day.Exercises[1].ID)
}

func TestUpdateDayWorkoutPreservesExistingIDs(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	first, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Tuesday, UpdateDayInput{
		DayType:   domain.DayWorkoutType,
		Exercises: []ExerciseInput{{Name: "Deadlift", Sets: 3, Reps: "5"}},
	})
	require.NoError(t, err)
	day, _ := schedule.FindDay(*first, 1, domain.Tuesday)
	keptID := day.Exercises[0].ID

	second, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Tuesday, UpdateDayInput{
		DayType: domain.DayWorkoutType,
		Exercises: []ExerciseInput{
			{ID: keptID, Name: "Deadlift", Sets: 4, Reps: "5"},
			{Name: "Row", Sets: 3, Reps: "10"},
		},
	})
	require.NoError(t, err)
	day, _ = schedule.FindDay(*second, 1, domain.Tuesday)
	assert.Equal(t, keptID, day.Exercises[0].ID)
	assert.Equal(t, 4, day.Exercises[0].Sets)
	assert.NotEqual(t, keptID, day.Exercises[1].ID)
}

func TestUpdateDayWorkoutRestClearsExercises(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	updated, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Sunday, UpdateDayInput{
		DayType:   domain.DayRest,
		Exercises: []ExerciseInput{{Name: "Squat", Sets: 3, Reps: "5"}},
	})
	require.NoError(t, err)

	day, err := schedule.FindDay(*updated, 1, domain.Sunday)
	require.NoError(t, err)
	assert.Equal(t, domain.DayRest, day.DayType)
	assert.Empty(t, day.Exercises)
}

func TestUpdateDayWorkoutValidation(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	_, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Monday, UpdateDayInput{
		DayType:   domain.DayWorkoutType,
		Exercises: []ExerciseInput{{Name: "", Sets: 3}},
	})
	assert.ErrorIs(t, err, ErrInvalidExercise)

	_, err = f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Monday, UpdateDayInput{
		DayType:   domain.DayWorkoutType,
		Exercises: []ExerciseInput{{Name: "Squat", Sets: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidExercise)

	_, err = f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 9, domain.Monday, UpdateDayInput{DayType: domain.DayWorkoutType})
	assert.ErrorIs(t, err, schedule.ErrWeekNotFound)
}

func TestReorderExercise(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	updated, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Monday, UpdateDayInput{
		DayType: domain.DayWorkoutType,
		Exercises: []ExerciseInput{
			{Name: "Squat", Sets: 5, Reps: "5"},
			{Name: "Bench", Sets: 3, Reps: "8"},
			{Name: "Row", Sets: 3, Reps: "10"},
		},
	})
	require.NoError(t, err)
	day, _ := schedule.FindDay(*updated, 1, domain.Monday)
	benchID := day.Exercises[1].ID

	reordered, err := f.svc.ReorderExercise(ctx, f.trainerID, program.ID, 1, domain.Monday, benchID, true)
	require.NoError(t, err)
	day, _ = schedule.FindDay(*reordered, 1, domain.Monday)
	assert.Equal(t, "Bench", day.Exercises[0].Name)
	assert.Equal(t, "Squat", day.Exercises[1].Name)
	assert.Equal(t, []int{0, 1, 2}, []int{day.Exercises[0].OrderIndex, day.Exercises[1].OrderIndex, day.Exercises[2].OrderIndex})

	// Moving the top exercise further up is a no-op.
	again, err := f.svc.ReorderExercise(ctx, f.trainerID, program.ID, 1, domain.Monday, benchID, true)
	require.NoError(t, err)
	day, _ = schedule.FindDay(*again, 1, domain.Monday)
	assert.Equal(t, "Bench", day.Exercises[0].Name)

	_, err = f.svc.ReorderExercise(ctx, f.trainerID, program.ID, 1, domain.Monday, "missing", true)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestCopyWeek(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)

	_, err := f.svc.UpdateDayWorkout(ctx, f.trainerID, program.ID, 1, domain.Monday, UpdateDayInput{
		DayType:   domain.DayWorkoutType,
		Notes:     "Volume",
		Exercises: []ExerciseInput{{Name: "Squat", Sets: 5, Reps: "5"}},
	})
	require.NoError(t, err)

	copied, err := f.svc.CopyWeek(ctx, f.trainerID, program.ID, 1, 3)
	require.NoError(t, err)

	sourceDay, _ := schedule.FindDay(*copied, 1, domain.Monday)
	targetWeek := copied.Weeks[2]
	targetDay, _ := schedule.FindDay(*copied, 3, domain.Monday)

	// Structure copied, target dates kept, fresh IDs, recomputed status.
	require.Len(t, targetDay.Exercises, 1)
	assert.Equal(t, "Squat", targetDay.Exercises[0].Name)
	assert.NotEqual(t, sourceDay.Exercises[0].ID, targetDay.Exercises[0].ID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), targetWeek.StartDate)
	assert.Equal(t, domain.StatusLocked, targetDay.Status) // Jan 15 is after testToday
	require.NotNil(t, targetWeek.CopiedFromWeek)
	assert.Equal(t, 1, *targetWeek.CopiedFromWeek)

	_, err = f.svc.CopyWeek(ctx, f.trainerID, program.ID, 1, 9)
	assert.ErrorIs(t, err, schedule.ErrWeekNotFound)
}

func TestSubmitReview(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	// Day must be submitted before it can be reviewed.
	_, err := f.svc.SubmitReview(ctx, f.trainerID, program.ID, 1, domain.Monday, ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, schedule.ErrDayNotSubmitted)

	// Force the day to submitted via the engine path.
	day, err := schedule.FindDay(*program, 1, domain.Monday)
	require.NoError(t, err)
	day, err = schedule.ApplySubmit(day, domain.ClientWorkoutLog{LoggedAt: testToday})
	require.NoError(t, err)
	withLog, err := schedule.ReplaceDay(*program, 1, domain.Monday, day)
	require.NoError(t, err)
	require.NoError(t, f.programs.Replace(ctx, &withLog))

	_, err = f.svc.SubmitReview(ctx, f.trainerID, program.ID, 1, domain.Monday, ReviewInput{Rating: 9})
	assert.ErrorIs(t, err, ErrInvalidRating)

	reviewed, err := f.svc.SubmitReview(ctx, f.trainerID, program.ID, 1, domain.Monday, ReviewInput{
		Rating:   5,
		Feedback: "Great depth",
	})
	require.NoError(t, err)

	got, err := schedule.FindDay(*reviewed, 1, domain.Monday)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewed, got.Status)
	require.NotNil(t, got.TrainerReview)
	assert.Equal(t, 5, got.TrainerReview.Rating)
	assert.Equal(t, testToday, got.TrainerReview.ReviewedAt)
}

func TestPendingReviews(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	pending, err := f.svc.PendingReviews(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	day, _ := schedule.FindDay(*program, 1, domain.Wednesday)
	day, err = schedule.ApplySubmit(day, domain.ClientWorkoutLog{LoggedAt: testToday})
	require.NoError(t, err)
	withLog, err := schedule.ReplaceDay(*program, 1, domain.Wednesday, day)
	require.NoError(t, err)
	require.NoError(t, f.programs.Replace(ctx, &withLog))

	pending, err = f.svc.PendingReviews(ctx, f.trainerID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.Wednesday, pending[0].Day.DayOfWeek)
	assert.Equal(t, program.ID, pending[0].Program.ID)
}

func TestUnlockTodaysWorkouts(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()

	// Program starting today: its first day is generated pending already,
	// so seed one where today is still locked.
	program := f.createProgram(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 2)
	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	stored.Status = domain.ProgramActive
	for wi := range stored.Weeks {
		for di := range stored.Weeks[wi].Days {
			if stored.Weeks[wi].Days[di].Date.Equal(schedule.DateOnly(testToday)) {
				stored.Weeks[wi].Days[di].Status = domain.StatusLocked
			}
		}
	}
	require.NoError(t, f.programs.Replace(ctx, stored))

	updated, err := f.svc.UnlockTodaysWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	swept, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	day, ok := schedule.TodaysWorkout(*swept, testToday)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, day.Status)

	// Second run finds nothing to flip.
	updated, err = f.svc.UnlockTodaysWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestUnlockSkipsInactivePrograms(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()

	program := f.createProgram(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 2)
	stored, _ := f.programs.GetByID(ctx, program.ID)
	for wi := range stored.Weeks {
		for di := range stored.Weeks[wi].Days {
			stored.Weeks[wi].Days[di].Status = domain.StatusLocked
		}
	}
	require.NoError(t, f.programs.Replace(ctx, stored)) // Still draft

	updated, err := f.svc.UnlockTodaysWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestClientFacingReads(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4)

	got, err := f.svc.GetClientProgram(ctx, f.clientID, program.ID)
	require.NoError(t, err)
	assert.Equal(t, program.ID, got.ID)

	_, err = f.svc.GetClientProgram(ctx, primitive.NewObjectID(), program.ID)
	assert.ErrorIs(t, err, ErrProgramAccessDenied)

	day, err := f.svc.TodaysWorkout(ctx, f.clientID, program.ID)
	require.NoError(t, err)
	assert.True(t, day.Date.Equal(schedule.DateOnly(testToday)))

	week, progress, err := f.svc.CurrentWeek(ctx, f.clientID, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, week.WeekNumber) // Jan 10 falls in week 2 (Jan 8-14)
	assert.Equal(t, 0, progress.Completed)
	assert.Equal(t, 7, progress.Total)
}

func TestTodaysWorkoutOutsideProgram(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 1)

	_, err := f.svc.TodaysWorkout(ctx, f.clientID, program.ID)
	assert.ErrorIs(t, err, ErrNoWorkoutToday)
}

func TestDeleteProgram(t *testing.T) {
	f := newProgramFixture(t)
	ctx := context.Background()
	program := f.createProgram(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1)

	otherTrainer := primitive.NewObjectID()
	err := f.svc.DeleteProgram(ctx, otherTrainer, program.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)

	require.NoError(t, f.svc.DeleteProgram(ctx, f.trainerID, program.ID))
	_, err = f.svc.GetProgram(ctx, program.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}
