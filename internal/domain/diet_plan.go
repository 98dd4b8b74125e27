package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DietPlan is a persisted weekly diet plan produced by one generation.
type DietPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"userId" json:"userId"`
	GenerationID string             `bson:"generationId" json:"generationId"`
	Topic        string             `bson:"topic" json:"topic"`
	Date         string             `bson:"date" json:"date"`
	Plan         []DayDiet          `bson:"plan" json:"plan"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
