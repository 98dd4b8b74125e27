package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidProfile is returned when a raw profile payload cannot be normalized.
var ErrInvalidProfile = errors.New("invalid profile")

const maxAge = 150

// FitnessLevel is the self-reported training experience of a user.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelAdvanced     FitnessLevel = "Advanced"
)

var fitnessLevels = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// UserProfile is the normalized input to plan generation. The pipeline
// only ever reads it.
type UserProfile struct {
	Name            string       `json:"name"`
	Age             int          `json:"age"`
	Gender          string       `json:"gender"`
	Height          string       `json:"height"`
	Weight          string       `json:"weight"`
	HealthCondition string       `json:"healthCondition"`
	FitnessGoal     string       `json:"fitnessGoal"`
	DaysPerWeek     int          `json:"daysPerWeek"`
	FitnessLevel    FitnessLevel `json:"fitnessLevel"`
	DietAllergies   string       `json:"dietAllergies"`
}

// NormalizeProfile validates a decoded JSON payload and coerces it into a
// UserProfile. Optional text fields default to "". Numeric fields accept
// either JSON numbers or numeric strings; anything else is rejected.
func NormalizeProfile(raw map[string]any) (UserProfile, error) {
	var p UserProfile
	var err error

	if p.Name, err = requiredText(raw, "name"); err != nil {
		return UserProfile{}, err
	}
	if p.FitnessGoal, err = requiredText(raw, "fitnessGoal"); err != nil {
		return UserProfile{}, err
	}
	if p.Age, err = requiredInt(raw, "age"); err != nil {
		return UserProfile{}, err
	}
	if p.Age <= 0 || p.Age > maxAge {
		return UserProfile{}, fmt.Errorf("%w: age must be between 1 and %d", ErrInvalidProfile, maxAge)
	}
	if p.DaysPerWeek, err = requiredInt(raw, "daysPerWeek"); err != nil {
		return UserProfile{}, err
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return UserProfile{}, fmt.Errorf("%w: daysPerWeek must be between 1 and 7", ErrInvalidProfile)
	}

	level, err := requiredText(raw, "fitnessLevel")
	if err != nil {
		return UserProfile{}, err
	}
	if p.FitnessLevel, err = parseFitnessLevel(level); err != nil {
		return UserProfile{}, err
	}

	optional := []struct {
		key string
		dst *string
	}{
		{"gender", &p.Gender},
		{"height", &p.Height},
		{"weight", &p.Weight},
		{"healthCondition", &p.HealthCondition},
		{"dietAllergies", &p.DietAllergies},
	}
	for _, f := range optional {
		if *f.dst, err = optionalText(raw, f.key); err != nil {
			return UserProfile{}, err
		}
	}
	return p, nil
}

func parseFitnessLevel(s string) (FitnessLevel, error) {
	for _, l := range fitnessLevels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: fitnessLevel must be one of Beginner, Intermediate, Advanced", ErrInvalidProfile)
}

func requiredText(raw map[string]any, key string) (string, error) {
	s, err := optionalText(raw, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidProfile, key)
	}
	return s, nil
}

// optionalText renders strings and numbers as trimmed text. Height and
// weight arrive as either.
func optionalText(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("%w: %s must be text", ErrInvalidProfile, key)
	}
}

func requiredInt(raw map[string]any, key string) (int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidProfile, key)
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidProfile, key)
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidProfile, key)
		}
		f = n
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidProfile, key)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidProfile, key)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidProfile, key)
	}
	return int(f), nil
}
