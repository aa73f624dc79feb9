package schedule

import (
	"time"

	"alcyxob/fitconnect/internal/domain"
)

// CopyWeek clones a week's exercise structure into a new week occupying the
// target slot. Day types, notes, and exercises carry over; every exercise
// gets a freshly generated ID so the copy never shares identity with the
// source. Statuses are recomputed from the new dates rather than copied,
// and client logs / trainer reviews never carry over: a cloned week is
// always unstarted.
func CopyWeek(source domain.Week, targetWeekNumber int, targetStartDate, today time.Time, newID IDGenerator) domain.Week {
	if newID == nil {
		newID = NewID
	}
	targetStart := DateOnly(targetStartDate)
	targetEnd := targetStart.AddDate(0, 0, 6)
	today = DateOnly(today)

	days := make([]domain.DayWorkout, 0, len(source.Days))
	for i, sourceDay := range source.Days {
		date := targetStart.AddDate(0, 0, i)

		exercises := make([]domain.Exercise, 0, len(sourceDay.Exercises))
		for _, ex := range sourceDay.Exercises {
			ex.ID = newID() // Deep copy with fresh identity, orderIndex preserved
			exercises = append(exercises, ex)
		}

		days = append(days, domain.DayWorkout{
			DayOfWeek: sourceDay.DayOfWeek,
			Date:      date,
			Exercises: exercises,
			DayType:   sourceDay.DayType,
			Notes:     sourceDay.Notes,
			Status:    InitialStatus(date, today),
		})
	}

	copiedFrom := source.WeekNumber
	return domain.Week{
		WeekNumber:     targetWeekNumber,
		StartDate:      targetStart,
		EndDate:        targetEnd,
		Days:           days,
		Notes:          source.Notes,
		CopiedFromWeek: &copiedFrom,
	}
}
