// Package nutrition turns a user's biometrics and goal into a daily calorie
// target and a protein/fat/carbs split. Everything here is pure: no I/O, no
// clock, no shared state.
package nutrition

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Parse* helpers. The calculator itself never
// returns an error; these exist for callers validating raw input.
var (
	ErrInvalidGender   = errors.New("invalid gender")
	ErrInvalidGoal     = errors.New("invalid goal")
	ErrInvalidActivity = errors.New("invalid week activity")
	ErrInvalidDietType = errors.New("invalid diet type")
	ErrInvalidUnit     = errors.New("invalid unit")
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case Male, Female, Other:
		return true
	}
	return false
}

// ParseGender validates s as a Gender.
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
	return g, nil
}

type Goal string

const (
	GoalLose       Goal = "lose"
	GoalMaintain   Goal = "maintain"
	GoalGain       Goal = "gain"
	GoalGainMuscle Goal = "gain_muscle"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain, GoalGainMuscle:
		return true
	}
	return false
}

// ParseGoal validates s as a Goal.
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGoal, s)
	}
	return g, nil
}

// WeekActivity is the number of training sessions per week, bucketed the way
// the onboarding screen asks for it.
type WeekActivity string

const (
	ActivityNone     WeekActivity = "0"
	ActivityLight    WeekActivity = "1-3"
	ActivityModerate WeekActivity = "4-5"
	ActivityHigh     WeekActivity = "6+"
)

func (a WeekActivity) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

// ParseWeekActivity validates s as a WeekActivity.
func ParseWeekActivity(s string) (WeekActivity, error) {
	a := WeekActivity(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidActivity, s)
	}
	return a, nil
}

type DietType string

const (
	DietClassic    DietType = "classic"
	DietVegan      DietType = "vegan"
	DietVegetarian DietType = "vegetarian"
)

func (d DietType) Valid() bool {
	switch d {
	case DietClassic, DietVegan, DietVegetarian:
		return true
	}
	return false
}

// ParseDietType validates s as a DietType. An empty string means classic.
func ParseDietType(s string) (DietType, error) {
	if s == "" {
		return DietClassic, nil
	}
	d := DietType(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDietType, s)
	}
	return d, nil
}

// DefaultWeeklyWeightChange is used when PlanInput.WeeklyWeightChange is nil.
const DefaultWeeklyWeightChange = 0.5

// PlanInput holds everything the calculator needs. Height is in centimeters,
// Weight and DesiredWeight in kilograms, WeeklyWeightChange in kg/week.
// DesiredWeight is carried for callers that persist it; the calculator
// ignores it.
type PlanInput struct {
	Gender             Gender
	Age                int
	Height             float64
	Weight             float64
	Goal               Goal
	WeekActivity       WeekActivity
	DietType           DietType
	WeeklyWeightChange *float64
	DesiredWeight      *float64
}

// weeklyChange returns the requested rate with the default applied.
func (in PlanInput) weeklyChange() float64 {
	if in.WeeklyWeightChange == nil {
		return DefaultWeeklyWeightChange
	}
	return *in.WeeklyWeightChange
}

func (in PlanInput) dietType() DietType {
	if in.DietType == "" {
		return DietClassic
	}
	return in.DietType
}

// MacroPercentages is a protein/carbs/fat split in percent of calories.
type MacroPercentages struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

func (p MacroPercentages) Sum() float64 {
	return p.Protein + p.Carbs + p.Fat
}

// WithinLimits reports whether every macro sits inside its global bound.
func (p MacroPercentages) WithinLimits() bool {
	return proteinLimit.contains(p.Protein) &&
		carbsLimit.contains(p.Carbs) &&
		fatLimit.contains(p.Fat)
}

type MacroGrams struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

// NutritionPlanResult is the daily plan handed back to callers.
type NutritionPlanResult struct {
	Calories int        `json:"calories"`
	TDEE     int        `json:"tdee"`
	Macros   MacroGrams `json:"macros"`
}

type AdvisoryCode string

const (
	AdvisoryUnsafeRate     AdvisoryCode = "unsafe_rate"
	AdvisoryVeryLowCalorie AdvisoryCode = "very_low_calorie"
)

// Advisory is a non-fatal diagnostic emitted next to a valid plan. Callers
// decide whether to surface it.
type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	Message string       `json:"message"`
}

// Calculation is the full trace of one Calculate run: the intermediate
// energy figures, the final percentage split and the rounded result.
type Calculation struct {
	BMR            float64
	TDEE           float64
	TargetCalories float64
	Percentages    MacroPercentages
	Result         NutritionPlanResult
	Advisories     []Advisory
}

// HasAdvisory reports whether code was emitted.
func (c Calculation) HasAdvisory(code AdvisoryCode) bool {
	for _, a := range c.Advisories {
		if a.Code == code {
			return true
		}
	}
	return false
}
