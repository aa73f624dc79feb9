package domain

import "time"

// ClientWorkoutLog is the client's as-performed record for a day.
// Created or replaced only by the client, never by the trainer.
type ClientWorkoutLog struct {
	LoggedAt     time.Time     `bson:"loggedAt" json:"loggedAt"`
	ExerciseLogs []ExerciseLog `bson:"exerciseLogs" json:"exerciseLogs"`
	OverallNotes string        `bson:"overallNotes,omitempty" json:"overallNotes,omitempty"`
	Duration     int           `bson:"duration" json:"duration"`                 // Minutes
	Rating       int           `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5, 0 when unrated
}

// ExerciseLog records the performed sets for one planned exercise.
// Completed is strictly derived: true iff every set in ActualSets is completed.
type ExerciseLog struct {
	ExerciseID string   `bson:"exerciseId" json:"exerciseId"`
	Completed  bool     `bson:"completed" json:"completed"`
	ActualSets []SetLog `bson:"actualSets" json:"actualSets"`
	Notes      string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// SetLog records a single performed set.
type SetLog struct {
	SetNumber    int    `bson:"setNumber" json:"setNumber"` // 1-based
	ActualReps   int    `bson:"actualReps" json:"actualReps"`
	ActualWeight string `bson:"actualWeight,omitempty" json:"actualWeight,omitempty"`
	RPE          int    `bson:"rpe,omitempty" json:"rpe,omitempty"` // 1-10, 0 when unset
	Completed    bool   `bson:"completed" json:"completed"`
}

// TrainerReview is the trainer's feedback on a submitted day.
// Attached only by the trainer, only to a day with status submitted.
type TrainerReview struct {
	ReviewedAt        time.Time `bson:"reviewedAt" json:"reviewedAt"`
	Rating            int       `bson:"rating" json:"rating"` // 1-5
	Feedback          string    `bson:"feedback" json:"feedback"`
	Encouragement     string    `bson:"encouragement,omitempty" json:"encouragement,omitempty"`
	AdjustmentsNeeded string    `bson:"adjustmentsNeeded,omitempty" json:"adjustmentsNeeded,omitempty"`
	NextSteps         string    `bson:"nextSteps,omitempty" json:"nextSteps,omitempty"`
}
