package schedule

import (
	"errors"
	"time"

	"alcyxob/fitconnect/internal/domain"
)

// --- Error Definitions ---
var (
	ErrWeekNotFound      = errors.New("week not found in program")
	ErrDayNotFound       = errors.New("day workout not found in week")
	ErrDayNotSubmitted   = errors.New("day has not been submitted for review")
	ErrInvalidTransition = errors.New("workout status does not allow this transition")
)

// InitialStatus computes a day's starting status from its date and "today".
// Days dated today or earlier start pending; future days start locked.
// Past-due days are deliberately NOT a separate "missed" state.
func InitialStatus(date, today time.Time) domain.WorkoutStatus {
	if DateOnly(date).After(DateOnly(today)) {
		return domain.StatusLocked
	}
	return domain.StatusPending
}

// canLog reports whether a client may write a log against the day.
// The only permitted log transitions are pending|in_progress -> in_progress
// (save) and pending|in_progress -> submitted (submit).
func canLog(status domain.WorkoutStatus) bool {
	return status == domain.StatusPending || status == domain.StatusInProgress
}

// ApplySave attaches a partial client log to the day and moves it to
// in_progress. Idempotent for days already in progress. Exercises and all
// other fields are left untouched.
func ApplySave(day domain.DayWorkout, log domain.ClientWorkoutLog) (domain.DayWorkout, error) {
	if !canLog(day.Status) {
		return day, ErrInvalidTransition
	}
	day.ClientLog = &log
	day.Status = domain.StatusInProgress
	return day, nil
}

// ApplySubmit attaches the final client log and moves the day to submitted.
func ApplySubmit(day domain.DayWorkout, log domain.ClientWorkoutLog) (domain.DayWorkout, error) {
	if !canLog(day.Status) {
		return day, ErrInvalidTransition
	}
	day.ClientLog = &log
	day.Status = domain.StatusSubmitted
	return day, nil
}

// AttachReview attaches trainer feedback to a submitted day and moves it to
// reviewed. Any other starting status is a workflow violation.
func AttachReview(day domain.DayWorkout, review domain.TrainerReview) (domain.DayWorkout, error) {
	if day.Status != domain.StatusSubmitted {
		return day, ErrDayNotSubmitted
	}
	day.TrainerReview = &review
	day.Status = domain.StatusReviewed
	return day, nil
}

// ApplyDayType changes a day's type. Changing to rest clears the day's
// exercises unconditionally; callers must warn before invoking, the
// exercises are not recoverable.
func ApplyDayType(day domain.DayWorkout, dayType domain.DayType) domain.DayWorkout {
	day.DayType = dayType
	if dayType == domain.DayRest {
		day.Exercises = []domain.Exercise{}
	}
	return day
}

// UnlockToday flips every locked day dated exactly "today" to pending and
// returns the updated program plus whether anything changed. Safe to invoke
// any number of times per day; after the first run there is nothing left
// to flip.
func UnlockToday(p domain.Program, today time.Time) (domain.Program, bool) {
	today = DateOnly(today)
	changed := false

	weeks := make([]domain.Week, len(p.Weeks))
	for wi, week := range p.Weeks {
		days := make([]domain.DayWorkout, len(week.Days))
		for di, day := range week.Days {
			if day.Status == domain.StatusLocked && day.Date.Equal(today) {
				day.Status = domain.StatusPending
				changed = true
			}
			days[di] = day
		}
		week.Days = days
		weeks[wi] = week
	}
	p.Weeks = weeks
	return p, changed
}

// ReplaceDay returns a copy of the program with the day at
// (weekNumber, dayOfWeek) replaced. Weeks and days are rebuilt as new
// slices so the input program's nested state is never aliased.
func ReplaceDay(p domain.Program, weekNumber int, dayOfWeek domain.DayOfWeek, updated domain.DayWorkout) (domain.Program, error) {
	weekIdx := -1
	for i, w := range p.Weeks {
		if w.WeekNumber == weekNumber {
			weekIdx = i
			break
		}
	}
	if weekIdx == -1 {
		return p, ErrWeekNotFound
	}

	dayIdx := -1
	for i, d := range p.Weeks[weekIdx].Days {
		if d.DayOfWeek == dayOfWeek {
			dayIdx = i
			break
		}
	}
	if dayIdx == -1 {
		return p, ErrDayNotFound
	}

	weeks := make([]domain.Week, len(p.Weeks))
	copy(weeks, p.Weeks)
	days := make([]domain.DayWorkout, len(weeks[weekIdx].Days))
	copy(days, weeks[weekIdx].Days)
	days[dayIdx] = updated
	weeks[weekIdx].Days = days
	p.Weeks = weeks
	return p, nil
}

// FindDay locates a day by week number and weekday.
func FindDay(p domain.Program, weekNumber int, dayOfWeek domain.DayOfWeek) (domain.DayWorkout, error) {
	for _, w := range p.Weeks {
		if w.WeekNumber != weekNumber {
			continue
		}
		for _, d := range w.Days {
			if d.DayOfWeek == dayOfWeek {
				return d, nil
			}
		}
		return domain.DayWorkout{}, ErrDayNotFound
	}
	return domain.DayWorkout{}, ErrWeekNotFound
}
