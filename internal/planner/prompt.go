package planner

import (
	"fmt"
	"strings"

	"grindai/fitness-planner/internal/domain"
)

const promptSchema = `Respond ONLY with a single JSON object in exactly the following format. The object must have
exactly two top-level keys, "workoutPlan" and "dietPlan". Do not wrap it in markdown and do not
write any text, commentary or explanation before or after the JSON.

{
  "workoutPlan": [
    {
      "day": "Monday",
      "exercises": ["Exercise 1", "Exercise 2"]
    }
  ],
  "dietPlan": [
    {
      "day": "Monday",
      "meals": {
        "breakfast": ["item1", "item2"],
        "lunch": ["item1", "item2"],
        "eveningSnack": ["item1", "item2"],
        "dinner": ["item1", "item2"]
      }
    }
  ]
}
`

// BuildPrompt renders the instruction sent to the model for a profile.
// The output depends only on the profile.
func BuildPrompt(p domain.UserProfile) string {
	days := make([]string, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		days[i] = string(d)
	}

	var b strings.Builder
	b.WriteString("You are a professional fitness coach. Based on the following user details, generate a structured weekly workout and diet plan. The format must be strictly followed so it can be parsed by code.\n\n")
	b.WriteString("User Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Height: %s cm\n", p.Height)
	fmt.Fprintf(&b, "- Weight: %s kg\n", p.Weight)
	fmt.Fprintf(&b, "- Health Condition: %s\n", p.HealthCondition)
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", p.FitnessGoal)
	fmt.Fprintf(&b, "- Days per Week: %d\n", p.DaysPerWeek)
	fmt.Fprintf(&b, "- Fitness Level: %s\n", p.FitnessLevel)
	fmt.Fprintf(&b, "- Diet Allergies: %s\n\n", p.DietAllergies)
	b.WriteString(promptSchema)
	fmt.Fprintf(&b, "\nCover all seven days of the week in both plans, one entry per day. The \"day\" value must be exactly one of: %s.\n", strings.Join(days, ", "))
	b.WriteString("Ensure this format is followed strictly.\n")
	return b.String()
}
