package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar date format shared by the records of one generation.
const DateLayout = "2006-01-02"

// Workout is a persisted weekly workout plan produced by one generation.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"userId" json:"userId"`             // Identity of the caller who generated it
	GenerationID string             `bson:"generationId" json:"generationId"` // Shared by the three records of a run
	Topic        string             `bson:"topic" json:"topic"`               // The profile's fitness goal
	Date         string             `bson:"date" json:"date"`                 // YYYY-MM-DD
	Plan         []DayWorkout       `bson:"plan" json:"plan"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
