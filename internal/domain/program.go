package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus type for the program lifecycle
type ProgramStatus string

const (
	ProgramDraft     ProgramStatus = "draft"
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
	ProgramPaused    ProgramStatus = "paused"
)

// WorkoutStatus tracks a single day's lifecycle:
// locked -> pending -> in_progress -> submitted -> reviewed.
type WorkoutStatus string

const (
	StatusLocked     WorkoutStatus = "locked"
	StatusPending    WorkoutStatus = "pending"
	StatusInProgress WorkoutStatus = "in_progress"
	StatusSubmitted  WorkoutStatus = "submitted" // Client submitted their log
	StatusReviewed   WorkoutStatus = "reviewed"  // Trainer provided feedback
)

// DayType categorizes a day's purpose. Only workout-like types carry exercises.
type DayType string

const (
	DayWorkoutType    DayType = "workout"
	DayRest           DayType = "rest"
	DayCardio         DayType = "cardio"
	DayActiveRecovery DayType = "active_recovery"
)

// DayOfWeek as a fixed string enum, Monday first.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DayOrder is the fixed weekday order used when generating a week's days.
var DayOrder = [7]DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Program is a trainer-authored, dated multi-week workout plan for one client.
// The program exclusively owns its weeks; weeks own days; days own exercises.
// Invariant: len(Weeks) == DurationWeeks, week numbers 1..DurationWeeks contiguous.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"` // Calendar date, midnight UTC
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	Status        ProgramStatus      `bson:"status" json:"status"`
	Weeks         []Week             `bson:"weeks" json:"weeks"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Week holds exactly 7 days dated StartDate..StartDate+6 in fixed weekday order.
type Week struct {
	WeekNumber     int          `bson:"weekNumber" json:"weekNumber"` // 1-based
	StartDate      time.Time    `bson:"startDate" json:"startDate"`
	EndDate        time.Time    `bson:"endDate" json:"endDate"` // StartDate + 6 days
	Days           []DayWorkout `bson:"days" json:"days"`
	Notes          string       `bson:"notes,omitempty" json:"notes,omitempty"`
	CopiedFromWeek *int         `bson:"copiedFromWeek,omitempty" json:"copiedFromWeek,omitempty"`
}

// DayWorkout is the atomic unit of scheduling and status.
// Rest days carry no exercises (cleared when the type changes to rest).
type DayWorkout struct {
	DayOfWeek     DayOfWeek         `bson:"dayOfWeek" json:"dayOfWeek"`
	Date          time.Time         `bson:"date" json:"date"`
	Exercises     []Exercise        `bson:"exercises" json:"exercises"`
	DayType       DayType           `bson:"dayType" json:"dayType"`
	Notes         string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        WorkoutStatus     `bson:"status" json:"status"`
	ClientLog     *ClientWorkoutLog `bson:"clientLog,omitempty" json:"clientLog,omitempty"`
	TrainerReview *TrainerReview    `bson:"trainerReview,omitempty" json:"trainerReview,omitempty"`
}

// Exercise is a planned movement prescription within a day.
// Owned exclusively by its DayWorkout; copies always get a fresh ID.
type Exercise struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Sets        int    `bson:"sets" json:"sets"`
	Reps        string `bson:"reps" json:"reps"` // Free-form, e.g. "10" or "8-12"
	Weight      string `bson:"weight,omitempty" json:"weight,omitempty"`
	RestSeconds int    `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Tempo       string `bson:"tempo,omitempty" json:"tempo,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderIndex  int    `bson:"orderIndex" json:"orderIndex"` // Contiguous, starting at 0
}
