package nutrition

import "fmt"

// Advisory thresholds.
const (
	unsafeRateKgPerWeek = 0.9
	lowCalorieBMRRatio  = 0.8
)

// Calculate computes the daily plan for in along with every intermediate
// figure. It never fails: inputs are taken as given, with nil
// WeeklyWeightChange meaning 0.5 kg/week and an empty DietType meaning
// classic. Safe for concurrent use.
func Calculate(in PlanInput) Calculation {
	rate := in.weeklyChange()

	bmr := BMR(in.Gender, in.Age, in.Height, in.Weight)
	tdee := TDEE(bmr, in.WeekActivity)
	calories := TargetCalories(tdee, in.Goal, DailyEnergyDelta(rate))

	pct := ResolveMacroPercentages(in, calories)

	calc := Calculation{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: calories,
		Percentages:    pct,
		Result: NutritionPlanResult{
			Calories: int(round(calories)),
			TDEE:     int(round(tdee)),
			Macros:   MacroGramsFor(calories, pct),
		},
	}

	if rate >= unsafeRateKgPerWeek {
		calc.Advisories = append(calc.Advisories, Advisory{
			Code:    AdvisoryUnsafeRate,
			Message: fmt.Sprintf("weekly weight change of %.2f kg is at or above the safe rate of %.1f kg/week", rate, unsafeRateKgPerWeek),
		})
	}
	if calories < bmr*lowCalorieBMRRatio {
		calc.Advisories = append(calc.Advisories, Advisory{
			Code:    AdvisoryVeryLowCalorie,
			Message: fmt.Sprintf("target of %.0f kcal is well below the estimated BMR of %.0f kcal", calories, bmr),
		})
	}

	return calc
}

// CalculateNutritionPlan returns only the rounded plan for in. See Calculate.
func CalculateNutritionPlan(in PlanInput) NutritionPlanResult {
	return Calculate(in).Result
}
