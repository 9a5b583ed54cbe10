package nutrition

import (
	"math"
	"reflect"
	"testing"
)

func rate(v float64) *float64 { return &v }

// boundaryInput is the worked example: male, 30, 180cm, 80kg, "1-3".
func boundaryInput(goal Goal) PlanInput {
	return PlanInput{
		Gender:       Male,
		Age:          30,
		Height:       180,
		Weight:       80,
		Goal:         goal,
		WeekActivity: ActivityLight,
		DietType:     DietClassic,
	}
}

/* ─── Scenario tests ─────────────────────────────────────────────────── */

// TestCalculate_MaintainBoundary: BMR 1780, TDEE 2447.5, calories = TDEE.
// Protein at 25% is 1.91 g/kg, above maintain's 1.6, so the split is pulled
// down and the even spread cannot fully close the gap because fat is pinned.
func TestCalculate_MaintainBoundary(t *testing.T) {
	calc := Calculate(boundaryInput(GoalMaintain))

	if calc.BMR != 1780 {
		t.Errorf("BMR = %v, want 1780", calc.BMR)
	}
	if calc.TDEE != 2447.5 {
		t.Errorf("TDEE = %v, want 2447.5", calc.TDEE)
	}
	want := NutritionPlanResult{
		Calories: 2448,
		TDEE:     2448,
		Macros:   MacroGrams{Protein: 131, Fat: 82, Carbs: 294},
	}
	if calc.Result != want {
		t.Errorf("Result = %+v, want %+v", calc.Result, want)
	}
	if calc.Percentages.Fat != 30 {
		t.Errorf("fat%% = %v, want 30", calc.Percentages.Fat)
	}
	if len(calc.Advisories) != 0 {
		t.Errorf("unexpected advisories: %+v", calc.Advisories)
	}
}

// TestCalculate_LoseDefaultRate: nil rate means 0.5 kg/week → 500 kcal/day
// deficit, round(2447.5 - 500) = 1948. Protein stays at 25% (1.52 g/kg).
func TestCalculate_LoseDefaultRate(t *testing.T) {
	got := CalculateNutritionPlan(boundaryInput(GoalLose))
	want := NutritionPlanResult{
		Calories: 1948,
		TDEE:     2448,
		Macros:   MacroGrams{Protein: 122, Fat: 54, Carbs: 244},
	}
	if got != want {
		t.Errorf("CalculateNutritionPlan = %+v, want %+v", got, want)
	}
}

// TestCalculate_ExplicitZeroRate verifies an explicit 0 is not replaced by
// the default.
func TestCalculate_ExplicitZeroRate(t *testing.T) {
	in := boundaryInput(GoalLose)
	in.WeeklyWeightChange = rate(0)
	if got := CalculateNutritionPlan(in).Calories; got != 2448 {
		t.Errorf("calories = %d, want 2448", got)
	}
}

func TestCalculate_GainAddsDelta(t *testing.T) {
	in := boundaryInput(GoalGain)
	in.WeeklyWeightChange = rate(0.25)
	if got := CalculateNutritionPlan(in).Calories; got != 2698 {
		t.Errorf("calories = %d, want 2698", got)
	}
}

// TestCalculate_SlowLoseFemale exercises the negative speed boost:
// female, 30, 165cm, 60kg, "0", 0.25 kg/week → 23/51/26.
func TestCalculate_SlowLoseFemale(t *testing.T) {
	calc := Calculate(PlanInput{
		Gender:             Female,
		Age:                30,
		Height:             165,
		Weight:             60,
		Goal:               GoalLose,
		WeekActivity:       ActivityNone,
		WeeklyWeightChange: rate(0.25),
	})
	assertPercentages(t, "Percentages", calc.Percentages, MacroPercentages{Protein: 23, Carbs: 51, Fat: 26})
	want := NutritionPlanResult{Calories: 1334, TDEE: 1584, Macros: MacroGrams{Protein: 77, Fat: 39, Carbs: 170}}
	if calc.Result != want {
		t.Errorf("Result = %+v, want %+v", calc.Result, want)
	}
}

// TestCalculate_OlderAdultGetsMoreProtein compares a 70 year old with an
// otherwise identical 40 year old.
func TestCalculate_OlderAdultGetsMoreProtein(t *testing.T) {
	for _, goal := range []Goal{GoalLose, GoalMaintain, GoalGain, GoalGainMuscle} {
		t.Run(string(goal), func(t *testing.T) {
			young := PlanInput{Gender: Male, Age: 40, Height: 175, Weight: 70, Goal: goal, WeekActivity: ActivityModerate}
			old := young
			old.Age = 70

			y, o := Calculate(young), Calculate(old)
			if o.Percentages.Protein < y.Percentages.Protein {
				t.Errorf("protein%% at 70 = %v, below protein%% at 40 = %v", o.Percentages.Protein, y.Percentages.Protein)
			}
		})
	}
}

func TestCalculate_EmptyDietTypeIsClassic(t *testing.T) {
	in := boundaryInput(GoalGainMuscle)
	in.DietType = ""
	classic := boundaryInput(GoalGainMuscle)
	if Calculate(in).Result != Calculate(classic).Result {
		t.Error("empty diet type produced a different plan than classic")
	}
}

/* ─── Advisory tests ─────────────────────────────────────────────────── */

func TestCalculate_UnsafeRateAdvisory(t *testing.T) {
	cases := []struct {
		rate float64
		want bool
	}{
		{0.5, false},
		{0.85, false},
		{0.9, true},
		{1.0, true},
	}
	for _, tc := range cases {
		in := boundaryInput(GoalLose)
		in.WeeklyWeightChange = rate(tc.rate)
		if got := Calculate(in).HasAdvisory(AdvisoryUnsafeRate); got != tc.want {
			t.Errorf("rate %v: unsafe_rate advisory = %v, want %v", tc.rate, got, tc.want)
		}
	}
}

// TestCalculate_VeryLowCalorieAdvisory: female, 55, 160cm, 90kg, sedentary,
// losing 1 kg/week → 757 kcal against a 1464 kcal BMR. Both advisories fire
// and the plan is still returned.
func TestCalculate_VeryLowCalorieAdvisory(t *testing.T) {
	calc := Calculate(PlanInput{
		Gender:             Female,
		Age:                55,
		Height:             160,
		Weight:             90,
		Goal:               GoalLose,
		WeekActivity:       ActivityNone,
		WeeklyWeightChange: rate(1.0),
	})
	if calc.Result.Calories != 757 {
		t.Errorf("calories = %d, want 757", calc.Result.Calories)
	}
	if !calc.HasAdvisory(AdvisoryVeryLowCalorie) {
		t.Error("expected very_low_calorie advisory")
	}
	if !calc.HasAdvisory(AdvisoryUnsafeRate) {
		t.Error("expected unsafe_rate advisory")
	}
	for _, a := range calc.Advisories {
		if a.Message == "" {
			t.Errorf("advisory %s has empty message", a.Code)
		}
	}
}

// TestCalculate_MaintainIgnoresRateButStillAdvises verifies the delta is
// ignored for maintain while the rate advisory is still reported.
func TestCalculate_MaintainIgnoresRateButStillAdvises(t *testing.T) {
	in := boundaryInput(GoalMaintain)
	in.WeeklyWeightChange = rate(1.2)
	calc := Calculate(in)
	if calc.TargetCalories != calc.TDEE {
		t.Errorf("target = %v, want TDEE %v", calc.TargetCalories, calc.TDEE)
	}
	if !calc.HasAdvisory(AdvisoryUnsafeRate) {
		t.Error("expected unsafe_rate advisory")
	}
}

/* ─── Property tests ─────────────────────────────────────────────────── */

// inputGrid yields a broad cross product of valid inputs.
func inputGrid() []PlanInput {
	var out []PlanInput
	for _, g := range []Gender{Male, Female, Other} {
		for _, goal := range []Goal{GoalLose, GoalMaintain, GoalGain, GoalGainMuscle} {
			for _, d := range []DietType{DietClassic, DietVegan, DietVegetarian} {
				for _, a := range []WeekActivity{ActivityNone, ActivityLight, ActivityModerate, ActivityHigh} {
					for _, age := range []int{18, 35, 50, 65, 85} {
						for _, w := range []float64{45, 70, 110, 160} {
							for _, r := range []float64{0, 0.25, 0.5, 1.0} {
								out = append(out, PlanInput{
									Gender: g, Age: age, Height: 170, Weight: w,
									Goal: goal, WeekActivity: a, DietType: d,
									WeeklyWeightChange: rate(r),
								})
							}
						}
					}
				}
			}
		}
	}
	return out
}

// TestCalculate_PercentagesAlwaysWithinLimits checks the bound invariant on
// every grid input, whether or not the split sums to 100.
func TestCalculate_PercentagesAlwaysWithinLimits(t *testing.T) {
	for _, in := range inputGrid() {
		calc := Calculate(in)
		if !calc.Percentages.WithinLimits() {
			t.Fatalf("input %+v: percentages %+v outside limits", in, calc.Percentages)
		}
	}
}

func TestCalculate_MaintainTargetEqualsTDEE(t *testing.T) {
	for _, in := range inputGrid() {
		if in.Goal != GoalMaintain {
			continue
		}
		calc := Calculate(in)
		if calc.TargetCalories != calc.TDEE {
			t.Fatalf("input %+v: target %v != TDEE %v", in, calc.TargetCalories, calc.TDEE)
		}
		if calc.Result.Calories != calc.Result.TDEE {
			t.Fatalf("input %+v: calories %d != tdee %d", in, calc.Result.Calories, calc.Result.TDEE)
		}
	}
}

// TestCalculate_GramsMatchCalories verifies that when the split sums to 100
// the gram totals convert back to the target within rounding: at most half a
// gram per macro, so 0.5*4 + 0.5*9 + 0.5*4 kcal.
func TestCalculate_GramsMatchCalories(t *testing.T) {
	const tolerance = 8.5
	checked := 0
	for _, in := range inputGrid() {
		calc := Calculate(in)
		if math.Abs(calc.Percentages.Sum()-100) > epsilon {
			continue
		}
		m := calc.Result.Macros
		kcal := float64(m.Protein*kcalPerGramProtein + m.Fat*kcalPerGramFat + m.Carbs*kcalPerGramCarbs)
		if diff := math.Abs(kcal - calc.TargetCalories); diff > tolerance+epsilon {
			t.Fatalf("input %+v: grams give %v kcal, target %v (diff %v)", in, kcal, calc.TargetCalories, diff)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no grid input produced a split summing to 100")
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	for _, in := range inputGrid()[:200] {
		if a, b := Calculate(in), Calculate(in); !reflect.DeepEqual(a, b) {
			t.Fatalf("input %+v: two runs differ: %+v vs %+v", in, a, b)
		}
	}
}
