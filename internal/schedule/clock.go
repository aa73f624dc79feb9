package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies "now" and "today" for all date-sensitive logic.
// Injected everywhere instead of reading the wall clock inline, so tests
// can pin dates deterministically.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
	// Today returns the current calendar date (midnight UTC, no time-of-day).
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time   { return time.Now().UTC() }
func (systemClock) Today() time.Time { return DateOnly(time.Now().UTC()) }

// SystemClock returns the real wall-clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a clock frozen at the given instant. Intended for tests
// and for batch operations that must see one consistent "today".
func FixedClock(t time.Time) Clock { return fixedClock{t: t.UTC()} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time   { return c.t }
func (c fixedClock) Today() time.Time { return DateOnly(c.t) }

// DateOnly truncates t to midnight UTC. All day/week dates in a program
// are stored in this form so date comparisons are plain Equal/Before/After.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IDGenerator supplies globally-unique identifiers for exercises and logs.
// Only uniqueness is required, not ordering.
type IDGenerator func() string

// NewID is the default generator.
func NewID() string { return uuid.NewString() }
