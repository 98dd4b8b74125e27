package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"grindai/fitness-planner/internal/domain"
)

// ScanMode selects how the fallback extractor bounds the embedded object.
type ScanMode int

const (
	// ScanStringAware ignores braces inside JSON string literals, honoring
	// backslash escapes.
	ScanStringAware ScanMode = iota
	// ScanLegacy counts every brace character, including those inside
	// strings. A string value containing an unmatched brace makes the
	// candidate end in the wrong place.
	ScanLegacy
)

var (
	dayFields  = []string{"day", "exercises", "meals"}
	mealFields = []string{"breakfast", "lunch", "eveningSnack", "dinner"}
)

var (
	errNoObject   = errors.New("no '{' found in response")
	errUnbalanced = errors.New("braces never balance before end of response")
)

// Recoverer turns raw model text into a GeneratedPlan.
type Recoverer struct {
	Mode ScanMode
}

// Recover parses raw with the default string-aware scanner.
func Recover(raw string) (domain.GeneratedPlan, error) {
	return Recoverer{Mode: ScanStringAware}.Recover(raw)
}

// Recover first tries the whole text as JSON. If that fails it takes the
// first brace-balanced object in the text and parses that instead. Both
// paths require the workoutPlan and dietPlan keys.
func (r Recoverer) Recover(raw string) (domain.GeneratedPlan, error) {
	plan, err := decodePlan([]byte(raw))
	if err == nil {
		return plan, nil
	}

	candidate, err := ExtractObject(raw, r.Mode)
	if err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("%w: %v", ErrRecoveryFailed, err)
	}
	plan, err = decodePlan([]byte(candidate))
	if err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("%w: %v", ErrRecoveryFailed, err)
	}
	return plan, nil
}

// ExtractObject returns the substring from the first '{' up to the brace
// that brings the nesting depth back to zero.
func ExtractObject(text string, mode ScanMode) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoObject
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = mode == ScanStringAware
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errUnbalanced
}

func decodePlan(data []byte) (domain.GeneratedPlan, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return domain.GeneratedPlan{}, err
	}

	workouts, ok := envelope["workoutPlan"]
	if !ok || isNull(workouts) {
		return domain.GeneratedPlan{}, errors.New(`missing "workoutPlan"`)
	}
	diets, ok := envelope["dietPlan"]
	if !ok || isNull(diets) {
		return domain.GeneratedPlan{}, errors.New(`missing "dietPlan"`)
	}

	if err := checkDayKeys(workouts); err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("workoutPlan: %w", err)
	}
	if err := checkDayKeys(diets); err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("dietPlan: %w", err)
	}

	var plan domain.GeneratedPlan
	if err := json.Unmarshal(workouts, &plan.WorkoutPlan); err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("workoutPlan: %w", err)
	}
	if err := json.Unmarshal(diets, &plan.DietPlan); err != nil {
		return domain.GeneratedPlan{}, fmt.Errorf("dietPlan: %w", err)
	}
	plan.Normalize()
	return plan, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// checkDayKeys rejects day entries whose keys match a plan field only when
// case is ignored. encoding/json would otherwise bind "DAY" to Day. Unknown
// keys are left alone, and shape errors are left to the typed decode.
func checkDayKeys(list json.RawMessage) error {
	var days []map[string]json.RawMessage
	if json.Unmarshal(list, &days) != nil {
		return nil
	}
	for i, day := range days {
		if err := checkKeyCase(day, dayFields); err != nil {
			return fmt.Errorf("day %d: %w", i, err)
		}
		var meals map[string]json.RawMessage
		if raw, ok := day["meals"]; ok && json.Unmarshal(raw, &meals) == nil {
			if err := checkKeyCase(meals, mealFields); err != nil {
				return fmt.Errorf("day %d meals: %w", i, err)
			}
		}
	}
	return nil
}

func checkKeyCase(obj map[string]json.RawMessage, fields []string) error {
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		for _, f := range fields {
			if k != f && strings.EqualFold(k, f) {
				return fmt.Errorf("key %q must be spelled %q", k, f)
			}
		}
	}
	return nil
}
