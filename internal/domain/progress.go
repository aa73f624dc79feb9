package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurements holds body measurements in centimeters.
type Measurements struct {
	Chest  float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist  float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips   float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Biceps float64 `bson:"biceps,omitempty" json:"biceps,omitempty"`
	Thighs float64 `bson:"thighs,omitempty" json:"thighs,omitempty"`
}

// ProgressSnapshot is a client's progress check-in (weight, measurements, photos).
// Photo files live in S3; PhotoKeys holds their object keys.
type ProgressSnapshot struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID  `bson:"clientId" json:"clientId"`
	ProgramID    *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	Date         time.Time           `bson:"date" json:"date"`
	Weight       float64             `bson:"weight,omitempty" json:"weight,omitempty"` // Kilograms
	Measurements *Measurements       `bson:"measurements,omitempty" json:"measurements,omitempty"`
	PhotoKeys    []string            `bson:"photoKeys,omitempty" json:"-"` // Internal S3 keys, never exposed raw
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
