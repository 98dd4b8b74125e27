package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Detail is an append-only snapshot of the profile a plan was generated from.
// Snapshots are never updated; a new one is written per generation.
type Detail struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            string             `bson:"userId" json:"userId"`
	GenerationID       string             `bson:"generationId" json:"generationId"`
	Topic              string             `bson:"topic" json:"topic"`
	Date               string             `bson:"date" json:"date"`
	Name               string             `bson:"name" json:"name"`
	Age                int                `bson:"age" json:"age"`
	Gender             string             `bson:"gender" json:"gender"`
	Height             string             `bson:"height" json:"height"`
	Weight             string             `bson:"weight" json:"weight"`
	HealthCondition    string             `bson:"healthCondition" json:"healthCondition"`
	FitnessGoal        string             `bson:"fitnessGoal" json:"fitnessGoal"`
	WorkoutDaysPerWeek int                `bson:"workoutDaysPerWeek" json:"workoutDaysPerWeek"`
	FitnessLevel       FitnessLevel       `bson:"fitnessLevel" json:"fitnessLevel"`
	DietAllergy        string             `bson:"dietAllergy" json:"dietAllergy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewDetail copies every profile field into a snapshot owned by ownerID.
func NewDetail(ownerID, generationID, date string, p UserProfile) *Detail {
	return &Detail{
		OwnerID:            ownerID,
		GenerationID:       generationID,
		Topic:              p.FitnessGoal,
		Date:               date,
		Name:               p.Name,
		Age:                p.Age,
		Gender:             p.Gender,
		Height:             p.Height,
		Weight:             p.Weight,
		HealthCondition:    p.HealthCondition,
		FitnessGoal:        p.FitnessGoal,
		WorkoutDaysPerWeek: p.DaysPerWeek,
		FitnessLevel:       p.FitnessLevel,
		DietAllergy:        p.DietAllergies,
	}
}
