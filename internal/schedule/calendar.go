package schedule

import (
	"time"

	"alcyxob/fitconnect/internal/domain"
)

// GenerateWeeks builds the dated week/day skeleton for a program.
//
// Week k (1-indexed) starts at startDate+(k-1)*7 days and ends 6 days later.
// Day i of each week (Monday=0..Sunday=6) falls on weekStart+i days. Every
// day starts with no exercises, dayType workout, and a status derived from
// "today" via InitialStatus.
//
// Pure function of its inputs; the caller validates durationWeeks >= 1.
func GenerateWeeks(startDate time.Time, durationWeeks int, today time.Time) []domain.Week {
	start := DateOnly(startDate)
	today = DateOnly(today)

	weeks := make([]domain.Week, 0, durationWeeks)
	for weekNum := 1; weekNum <= durationWeeks; weekNum++ {
		weekStart := start.AddDate(0, 0, (weekNum-1)*7)
		weekEnd := weekStart.AddDate(0, 0, 6)

		days := make([]domain.DayWorkout, 0, len(domain.DayOrder))
		for i, dayOfWeek := range domain.DayOrder {
			date := weekStart.AddDate(0, 0, i)
			days = append(days, domain.DayWorkout{
				DayOfWeek: dayOfWeek,
				Date:      date,
				Exercises: []domain.Exercise{},
				DayType:   domain.DayWorkoutType,
				Status:    InitialStatus(date, today),
			})
		}

		weeks = append(weeks, domain.Week{
			WeekNumber: weekNum,
			StartDate:  weekStart,
			EndDate:    weekEnd,
			Days:       days,
		})
	}
	return weeks
}
