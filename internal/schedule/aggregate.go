package schedule

import (
	"math"
	"time"

	"alcyxob/fitconnect/internal/domain"
)

// CompletionPercentage derives how much of a program is done.
// A day counts toward the total unless it is a rest day, and counts as
// complete only once reviewed; submitted days are still in flight.
func CompletionPercentage(p domain.Program) int {
	total := 0
	completed := 0
	for _, week := range p.Weeks {
		for _, day := range week.Days {
			if day.DayType == domain.DayRest {
				continue
			}
			total++
			if day.Status == domain.StatusReviewed {
				completed++
			}
		}
	}
	return roundPercent(completed, total)
}

// WeekProgress summarizes one week: reviewed days, total days, percentage.
type WeekProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ProgressForWeek counts reviewed days against all days of the week.
func ProgressForWeek(w domain.Week) WeekProgress {
	completed := 0
	for _, day := range w.Days {
		if day.Status == domain.StatusReviewed {
			completed++
		}
	}
	return WeekProgress{
		Completed:  completed,
		Total:      len(w.Days),
		Percentage: roundPercent(completed, len(w.Days)),
	}
}

// CurrentWeek returns the week whose [StartDate, EndDate] range contains
// today. Before the program starts it returns week 1; after the last week
// it returns the last week; for a program with no weeks it returns false.
func CurrentWeek(p domain.Program, today time.Time) (domain.Week, bool) {
	if len(p.Weeks) == 0 {
		return domain.Week{}, false
	}
	today = DateOnly(today)

	for _, week := range p.Weeks {
		if !today.Before(week.StartDate) && !today.After(week.EndDate) {
			return week, true
		}
	}
	if today.Before(DateOnly(p.StartDate)) {
		return p.Weeks[0], true
	}
	return p.Weeks[len(p.Weeks)-1], true
}

// TodaysWorkout returns the day dated exactly today, if the program has one.
func TodaysWorkout(p domain.Program, today time.Time) (domain.DayWorkout, bool) {
	today = DateOnly(today)
	for _, week := range p.Weeks {
		for _, day := range week.Days {
			if day.Date.Equal(today) {
				return day, true
			}
		}
	}
	return domain.DayWorkout{}, false
}

// PendingReview is a submitted day awaiting trainer feedback, with its
// owning program and week for display context.
type PendingReview struct {
	Program domain.Program    `json:"program"`
	Week    domain.Week       `json:"week"`
	Day     domain.DayWorkout `json:"day"`
}

// PendingReviews collects every submitted day across the given programs,
// in program/week/day iteration order.
func PendingReviews(programs []domain.Program) []PendingReview {
	var pending []PendingReview
	for _, p := range programs {
		for _, week := range p.Weeks {
			for _, day := range week.Days {
				if day.Status == domain.StatusSubmitted {
					pending = append(pending, PendingReview{Program: p, Week: week, Day: day})
				}
			}
		}
	}
	return pending
}

func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
