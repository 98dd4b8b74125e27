package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIsValid(t *testing.T) {
	for _, d := range Weekdays {
		assert.True(t, d.IsValid(), d)
	}
	for _, d := range []Weekday{"monday", "MONDAY", "Mon", "", "Funday"} {
		assert.False(t, d.IsValid(), d)
	}
}

func TestGeneratedPlanNormalize(t *testing.T) {
	p := GeneratedPlan{
		WorkoutPlan: []DayWorkout{{Day: Monday}},
		DietPlan:    []DayDiet{{Day: Monday, Meals: DayMeals{Lunch: []string{"rice"}}}},
	}

	p.Normalize()
	out, err := json.Marshal(p)

	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
	assert.Equal(t, []string{"rice"}, p.DietPlan[0].Meals.Lunch)

	var empty GeneratedPlan
	empty.Normalize()
	assert.NotNil(t, empty.WorkoutPlan)
	assert.NotNil(t, empty.DietPlan)
}

func TestGeneratedPlanMarshalJSON(t *testing.T) {
	t.Run("should write arrays for the zero value", func(t *testing.T) {
		out, err := json.Marshal(GeneratedPlan{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"workoutPlan":[],"dietPlan":[]}`, string(out))
	})

	t.Run("should write arrays for nil day lists without touching the value", func(t *testing.T) {
		p := GeneratedPlan{
			WorkoutPlan: []DayWorkout{{Day: Monday}},
			DietPlan:    []DayDiet{{Day: Tuesday}},
		}

		out, err := json.Marshal(p)

		require.NoError(t, err)
		assert.JSONEq(t, `{"workoutPlan":[{"day":"Monday","exercises":[]}],`+
			`"dietPlan":[{"day":"Tuesday","meals":{"breakfast":[],"lunch":[],"eveningSnack":[],"dinner":[]}}]}`, string(out))
		assert.Nil(t, p.WorkoutPlan[0].Exercises)
		assert.Nil(t, p.DietPlan[0].Meals.Dinner)
	})
}
