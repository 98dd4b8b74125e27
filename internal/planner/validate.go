package planner

import (
	"fmt"

	"grindai/fitness-planner/internal/domain"
)

// Validate checks the day names of both halves of a plan. It does not
// require all seven days to be present.
func Validate(plan domain.GeneratedPlan) (domain.GeneratedPlan, error) {
	if err := ValidateWorkoutPlan(plan.WorkoutPlan); err != nil {
		return domain.GeneratedPlan{}, err
	}
	if err := ValidateDietPlan(plan.DietPlan); err != nil {
		return domain.GeneratedPlan{}, err
	}
	return plan, nil
}

// ValidateWorkoutPlan requires every day to be a canonical weekday, used once.
func ValidateWorkoutPlan(days []domain.DayWorkout) error {
	seen := make(map[domain.Weekday]bool, len(days))
	for i, d := range days {
		if err := checkDay("workoutPlan", i, d.Day, seen); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDietPlan applies the same day rules as ValidateWorkoutPlan.
func ValidateDietPlan(days []domain.DayDiet) error {
	seen := make(map[domain.Weekday]bool, len(days))
	for i, d := range days {
		if err := checkDay("dietPlan", i, d.Day, seen); err != nil {
			return err
		}
	}
	return nil
}

func checkDay(field string, i int, day domain.Weekday, seen map[domain.Weekday]bool) error {
	if !day.IsValid() {
		return fmt.Errorf("%w: %s[%d]: %q is not a weekday name", ErrValidationFailed, field, i, day)
	}
	if seen[day] {
		return fmt.Errorf("%w: %s[%d]: %q appears more than once", ErrValidationFailed, field, i, day)
	}
	seen[day] = true
	return nil
}
