package nutrition

import "math"

// activityMultipliers maps weekly training frequency to its TDEE multiplier.
// Also the source of truth for WeekActivity.Valid.
var activityMultipliers = map[WeekActivity]float64{
	ActivityNone:     1.2,
	ActivityLight:    1.375,
	ActivityModerate: 1.55,
	ActivityHigh:     1.725,
}

// bmrConstants is the sex term of Mifflin-St Jeor. "other" uses the midpoint
// of the male and female constants.
var bmrConstants = map[Gender]float64{
	Male:   5,
	Female: -161,
	Other:  -78,
}

// kcalPerKgWeekly converts a weekly weight-change rate (kg/week) to a daily
// energy delta. Not the 7700 kcal/kg physiological figure.
const kcalPerKgWeekly = 1000

// round is round-half-up, so -2.5 rounds to -2 rather than away from zero.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// BMR estimates basal metabolic rate via Mifflin-St Jeor. An unknown gender
// falls back to the "other" constant.
func BMR(gender Gender, age int, heightCM, weightKG float64) float64 {
	c, ok := bmrConstants[gender]
	if !ok {
		c = bmrConstants[Other]
	}
	return 10*weightKG + 6.25*heightCM - 5*float64(age) + c
}

// ActivityMultiplier returns the TDEE multiplier for a. Unknown values are
// treated as sedentary.
func ActivityMultiplier(a WeekActivity) float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return activityMultipliers[ActivityNone]
}

// TDEE scales bmr by the activity multiplier. Not rounded.
func TDEE(bmr float64, a WeekActivity) float64 {
	return bmr * ActivityMultiplier(a)
}

// DailyEnergyDelta is the kcal/day surplus or deficit implied by a weekly
// rate of change. Non-positive rates yield 0.
func DailyEnergyDelta(kgPerWeek float64) float64 {
	if kgPerWeek <= 0 {
		return 0
	}
	return kgPerWeek * kcalPerKgWeekly
}

// TargetCalories shifts tdee toward goal by delta kcal/day. Maintain returns
// tdee unrounded; the other goals round to the nearest kcal. No minimum floor
// is applied.
func TargetCalories(tdee float64, goal Goal, delta float64) float64 {
	switch goal {
	case GoalMaintain:
		return tdee
	case GoalLose:
		return round(tdee - delta)
	default:
		return round(tdee + delta)
	}
}
