package domain

import "encoding/json"

// Weekday is one of the seven canonical, case-sensitive day names used in plans.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the canonical day names in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsValid reports whether d is exactly one of the canonical day names.
func (d Weekday) IsValid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// DayWorkout is the list of exercises scheduled for a single day.
type DayWorkout struct {
	Day       Weekday  `bson:"day" json:"day"`
	Exercises []string `bson:"exercises" json:"exercises"`
}

// DayMeals holds the ordered food items for each meal slot of a day.
type DayMeals struct {
	Breakfast    []string `bson:"breakfast" json:"breakfast"`
	Lunch        []string `bson:"lunch" json:"lunch"`
	EveningSnack []string `bson:"eveningSnack" json:"eveningSnack"`
	Dinner       []string `bson:"dinner" json:"dinner"`
}

// DayDiet is the meal plan for a single day.
type DayDiet struct {
	Day   Weekday  `bson:"day" json:"day"`
	Meals DayMeals `bson:"meals" json:"meals"`
}

// GeneratedPlan is the structured result recovered from a model response.
type GeneratedPlan struct {
	WorkoutPlan []DayWorkout `json:"workoutPlan"`
	DietPlan    []DayDiet    `json:"dietPlan"`
}

// Normalize replaces nil slices with empty ones so the plan never
// serializes or persists nulls where lists are expected.
func (p *GeneratedPlan) Normalize() {
	if p.WorkoutPlan == nil {
		p.WorkoutPlan = []DayWorkout{}
	}
	if p.DietPlan == nil {
		p.DietPlan = []DayDiet{}
	}
	for i := range p.WorkoutPlan {
		p.WorkoutPlan[i].Exercises = nonNil(p.WorkoutPlan[i].Exercises)
	}
	for i := range p.DietPlan {
		m := &p.DietPlan[i].Meals
		m.Breakfast = nonNil(m.Breakfast)
		m.Lunch = nonNil(m.Lunch)
		m.EveningSnack = nonNil(m.EveningSnack)
		m.Dinner = nonNil(m.Dinner)
	}
}

// Normalized returns a normalized copy and leaves p untouched.
func (p GeneratedPlan) Normalized() GeneratedPlan {
	c := GeneratedPlan{
		WorkoutPlan: append([]DayWorkout{}, p.WorkoutPlan...),
		DietPlan:    append([]DayDiet{}, p.DietPlan...),
	}
	c.Normalize()
	return c
}

// MarshalJSON always writes arrays, never null, so every plan value
// serializes to a shape that recovery accepts.
func (p GeneratedPlan) MarshalJSON() ([]byte, error) {
	type plain GeneratedPlan
	return json.Marshal(plain(p.Normalized()))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
