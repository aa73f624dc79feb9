package service

import (
	"context"
	"errors"
	"sync"

	"alcyxob/fitconnect/internal/domain"
	"alcyxob/fitconnect/internal/repository"
	"alcyxob/fitconnect/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound   = errors.New("logging session not found")
	ErrSessionForbidden  = errors.New("logging session belongs to another client")
	ErrNoExercisesToLog  = errors.New("day has no exercises to log")
	ErrWorkoutNotLogable = errors.New("workout is not available for logging")
)

// SessionView is the snapshot handlers return to the client after every
// session mutation.
type SessionView struct {
	SessionID            string               `json:"sessionId"`
	ProgramID            string               `json:"programId"`
	WeekNumber           int                  `json:"weekNumber"`
	DayOfWeek            domain.DayOfWeek     `json:"dayOfWeek"`
	ExerciseLogs         []domain.ExerciseLog `json:"exerciseLogs"`
	CompletionPercentage int                  `json:"completionPercentage"`
	DurationMinutes      int                  `json:"durationMinutes"`
}

// --- Service Interface ---

// LoggingService runs client workout logging sessions. A session is
// in-memory scratch state keyed by an opaque ID; nothing touches the
// program document until SaveProgress or Submit.
type LoggingService interface {
	StartSession(ctx context.Context, clientID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek) (*SessionView, error)
	GetSession(clientID primitive.ObjectID, sessionID string) (*SessionView, error)

	UpdateSet(clientID primitive.ObjectID, sessionID, exerciseID string, setNumber int, update schedule.SetUpdate) (*SessionView, error)
	ToggleSetCompleted(clientID primitive.ObjectID, sessionID, exerciseID string, setNumber int) (*SessionView, error)
	SetExerciseNotes(clientID primitive.ObjectID, sessionID, exerciseID, notes string) error
	SetOverallNotes(clientID primitive.ObjectID, sessionID, notes string) error
	SetRating(clientID primitive.ObjectID, sessionID string, rating int) error

	// SaveProgress persists the partial log and moves the day to in_progress.
	// The session stays open so logging can continue.
	SaveProgress(ctx context.Context, clientID primitive.ObjectID, sessionID string) (*domain.Program, error)
	// Submit persists the final log, moves the day to submitted, and closes
	// the session.
	Submit(ctx context.Context, clientID primitive.ObjectID, sessionID string) (*domain.Program, error)
	// Abandon discards the session without writing anything.
	Abandon(clientID primitive.ObjectID, sessionID string) error
}

// --- Service Implementation ---

// sessionState pins a LogSession to the day it logs against.
type sessionState struct {
	session    *schedule.LogSession
	clientID   primitive.ObjectID
	programID  primitive.ObjectID
	weekNumber int
	dayOfWeek  domain.DayOfWeek
}

type loggingService struct {
	programRepo repository.ProgramRepository
	clock       schedule.Clock
	newID       schedule.IDGenerator

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewLoggingService creates a new instance of loggingService.
func NewLoggingService(programRepo repository.ProgramRepository, clock schedule.Clock, newID schedule.IDGenerator) LoggingService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	if newID == nil {
		newID = schedule.NewID
	}
	return &loggingService{
		programRepo: programRepo,
		clock:       clock,
		newID:       newID,
		sessions:    make(map[string]*sessionState),
	}
}

// StartSession opens a logging session for one day of the client's own
// program. A day already in progress resumes from its saved log; a
// pending day starts fresh from the planned exercises.
func (s *loggingService) StartSession(ctx context.Context, clientID, programID primitive.ObjectID, weekNumber int, dayOfWeek domain.DayOfWeek) (*SessionView, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.ClientID != clientID {
		return nil, ErrProgramAccessDenied
	}

	day, err := schedule.FindDay(*program, weekNumber, dayOfWeek)
	if err != nil {
		return nil, err
	}

	var session *schedule.LogSession
	switch day.Status {
	case domain.StatusInProgress:
		if day.ClientLog != nil {
			session = schedule.ResumeLogSession(*day.ClientLog, s.clock)
		} else {
			session = schedule.NewLogSession(day, s.clock)
		}
	case domain.StatusPending:
		session = schedule.NewLogSession(day, s.clock)
	default:
		return nil, ErrWorkoutNotLogable
	}
	if session == nil {
		return nil, ErrNoExercisesToLog
	}

	state := &sessionState{
		session:    session,
		clientID:   clientID,
		programID:  programID,
		weekNumber: weekNumber,
		dayOfWeek:  dayOfWeek,
	}
	sessionID := s.newID()

	s.mu.Lock()
	s.sessions[sessionID] = state
	s.mu.Unlock()

	return s.view(sessionID, state), nil
}

func (s *loggingService) GetSession(clientID primitive.ObjectID, sessionID string) (*SessionView, error) {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, state), nil
}

func (s *loggingService) UpdateSet(clientID primitive.ObjectID, sessionID, exerciseID string, setNumber int, update schedule.SetUpdate) (*SessionView, error) {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return nil, err
	}
	state.session.UpdateSet(exerciseID, setNumber, update)
	return s.view(sessionID, state), nil
}

func (s *loggingService) ToggleSetCompleted(clientID primitive.ObjectID, sessionID, exerciseID string, setNumber int) (*SessionView, error) {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return nil, err
	}
	state.session.ToggleSetCompleted(exerciseID, setNumber)
	return s.view(sessionID, state), nil
}

func (s *loggingService) SetExerciseNotes(clientID primitive.ObjectID, sessionID, exerciseID, notes string) error {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return err
	}
	state.session.SetExerciseNotes(exerciseID, notes)
	return nil
}

func (s *loggingService) SetOverallNotes(clientID primitive.ObjectID, sessionID, notes string) error {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return err
	}
	state.session.SetOverallNotes(notes)
	return nil
}

func (s *loggingService) SetRating(clientID primitive.ObjectID, sessionID string, rating int) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return err
	}
	state.session.SetRating(rating)
	return nil
}

// SaveProgress freezes the session into a log, attaches it to the day,
// and replaces the program document. The day moves to in_progress.
func (s *loggingService) SaveProgress(ctx context.Context, clientID primitive.ObjectID, sessionID string) (*domain.Program, error) {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.persistLog(ctx, state, schedule.ApplySave)
}

// Submit persists the final log, moves the day to submitted, and removes
// the session.
func (s *loggingService) Submit(ctx context.Context, clientID primitive.ObjectID, sessionID string) (*domain.Program, error) {
	state, err := s.lookup(clientID, sessionID)
	if err != nil {
		return nil, err
	}
	program, err := s.persistLog(ctx, state, schedule.ApplySubmit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return program, nil
}

func (s *loggingService) Abandon(clientID primitive.ObjectID, sessionID string) error {
	if _, err := s.lookup(clientID, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// persistLog re-reads the program so the transition check runs against
// current state, applies the transition, and replaces the document.
func (s *loggingService) persistLog(
	ctx context.Context,
	state *sessionState,
	transition func(domain.DayWorkout, domain.ClientWorkoutLog) (domain.DayWorkout, error),
) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, state.programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.ClientID != state.clientID {
		return nil, ErrProgramAccessDenied
	}

	day, err := schedule.FindDay(*program, state.weekNumber, state.dayOfWeek)
	if err != nil {
		return nil, err
	}

	logged, err := transition(day, state.session.BuildLog())
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidTransition) {
			return nil, ErrWorkoutNotLogable
		}
		return nil, err
	}

	updated, err := schedule.ReplaceDay(*program, state.weekNumber, state.dayOfWeek, logged)
	if err != nil {
		return nil, err
	}
	if err := s.programRepo.Replace(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *loggingService) lookup(clientID primitive.ObjectID, sessionID string) (*sessionState, error) {
	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.clientID != clientID {
		return nil, ErrSessionForbidden
	}
	return state, nil
}

func (s *loggingService) view(sessionID string, state *sessionState) *SessionView {
	return &SessionView{
		SessionID:            sessionID,
		ProgramID:            state.programID.Hex(),
		WeekNumber:           state.weekNumber,
		DayOfWeek:            state.dayOfWeek,
		ExerciseLogs:         state.session.ExerciseLogs(),
		CompletionPercentage: state.session.CompletionPercentage(),
		DurationMinutes:      state.session.Duration(),
	}
}
