package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"grindai/fitness-planner/internal/domain"
)

func sampleProfile() domain.UserProfile {
	return domain.UserProfile{
		Name:            "Sam",
		Age:             30,
		Gender:          "female",
		Height:          "170",
		Weight:          "65",
		HealthCondition: "mild asthma",
		FitnessGoal:     "Weight Loss",
		DaysPerWeek:     3,
		FitnessLevel:    domain.LevelBeginner,
		DietAllergies:   "peanuts",
	}
}

func TestBuildPrompt(t *testing.T) {
	p := sampleProfile()
	prompt := BuildPrompt(p)

	for _, want := range []string{
		"- Name: Sam",
		"- Age: 30",
		"- Gender: female",
		"- Height: 170 cm",
		"- Weight: 65 kg",
		"- Health Condition: mild asthma",
		"- Fitness Goal: Weight Loss",
		"- Days per Week: 3",
		"- Fitness Level: Beginner",
		"- Diet Allergies: peanuts",
		`"workoutPlan"`,
		`"dietPlan"`,
		`"eveningSnack"`,
		"Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.True(t, strings.Contains(prompt, "Respond ONLY"))
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	p := sampleProfile()
	assert.Equal(t, BuildPrompt(p), BuildPrompt(p))

	other := p
	other.DietAllergies = "shellfish"
	assert.NotEqual(t, BuildPrompt(p), BuildPrompt(other))
}
