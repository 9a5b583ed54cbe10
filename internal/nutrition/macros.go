package nutrition

import "math"

// Atwater factors, kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarbs   = 4
)

type limit struct{ min, max float64 }

func (l limit) clamp(v float64) float64 {
	return math.Max(l.min, math.Min(v, l.max))
}

func (l limit) contains(v float64) bool {
	return v >= l.min && v <= l.max
}

// Global percentage bounds every final split must respect.
var (
	proteinLimit = limit{min: 10, max: 30}
	fatLimit     = limit{min: 15, max: 30}
	carbsLimit   = limit{min: 20, max: 65}
)

type macroKey struct {
	goal Goal
	diet DietType
}

// baseMacros is the starting protein/carbs/fat split for each goal and diet.
var baseMacros = map[macroKey]MacroPercentages{
	{GoalLose, DietClassic}:    {Protein: 25, Carbs: 50, Fat: 25},
	{GoalLose, DietVegan}:      {Protein: 25, Carbs: 50, Fat: 25},
	{GoalLose, DietVegetarian}: {Protein: 28, Carbs: 45, Fat: 27},

	{GoalMaintain, DietClassic}:    {Protein: 25, Carbs: 45, Fat: 30},
	{GoalMaintain, DietVegan}:      {Protein: 20, Carbs: 55, Fat: 25},
	{GoalMaintain, DietVegetarian}: {Protein: 23, Carbs: 50, Fat: 27},

	{GoalGain, DietClassic}:    {Protein: 25, Carbs: 50, Fat: 25},
	{GoalGain, DietVegan}:      {Protein: 18, Carbs: 57, Fat: 25},
	{GoalGain, DietVegetarian}: {Protein: 19, Carbs: 54, Fat: 27},

	{GoalGainMuscle, DietClassic}:    {Protein: 30, Carbs: 45, Fat: 25},
	{GoalGainMuscle, DietVegan}:      {Protein: 25, Carbs: 45, Fat: 30},
	{GoalGainMuscle, DietVegetarian}: {Protein: 28, Carbs: 42, Fat: 30},
}

// proteinPerKg is the accepted protein intake range in g per kg of body
// weight for each goal.
var proteinPerKg = map[Goal]limit{
	GoalLose:       {min: 1.2, max: 1.7},
	GoalMaintain:   {min: 1.2, max: 1.6},
	GoalGain:       {min: 1.4, max: 1.8},
	GoalGainMuscle: {min: 1.6, max: 2.2},
}

// BaseMacroPercentages looks up the starting split for goal and diet. ok is
// false when the pair is not in the table.
func BaseMacroPercentages(goal Goal, diet DietType) (MacroPercentages, bool) {
	p, ok := baseMacros[macroKey{goal, diet}]
	return p, ok
}

/* ─── Adjustment passes ──────────────────────────────────────────────── */

// shiftToProtein moves boost points into protein, taking carbsShare of it
// from carbs and the rest from fat. Protein is only capped and carbs/fat are
// only floored; each call clamps on its own.
func shiftToProtein(p MacroPercentages, boost, carbsShare, fatShare float64) MacroPercentages {
	return MacroPercentages{
		Protein: math.Min(p.Protein+boost, proteinLimit.max),
		Carbs:   math.Max(p.Carbs-round(boost*carbsShare), carbsLimit.min),
		Fat:     math.Max(p.Fat-round(boost*fatShare), fatLimit.min),
	}
}

// adjustForSpeed raises protein for faster weight loss. The gain_muscle
// branch has a zero boost coefficient and never changes the split.
func adjustForSpeed(p MacroPercentages, goal Goal, kgPerWeek float64) MacroPercentages {
	switch goal {
	case GoalLose:
		speed := math.Min(kgPerWeek/0.5, 2)
		return shiftToProtein(p, round((speed-1)*5), 0.7, 0.3)
	case GoalGainMuscle:
		speed := math.Min(kgPerWeek/0.3, 1.5)
		return shiftToProtein(p, round((speed-1)*0), 0.6, 0.4)
	}
	return p
}

// adjustForAge adds protein for users 50 and over.
func adjustForAge(p MacroPercentages, age int) MacroPercentages {
	switch {
	case age >= 65:
		return shiftToProtein(p, 3, 0.7, 0.3)
	case age >= 50:
		return shiftToProtein(p, 2, 0.7, 0.3)
	}
	return p
}

/* ─── Reconciliation ─────────────────────────────────────────────────── */

// reconcileProteinRange pulls protein back inside the goal's g/kg range at
// the given calorie target, moving the difference 60/40 between carbs and
// fat.
func reconcileProteinRange(p MacroPercentages, goal Goal, weightKG, calories float64) MacroPercentages {
	rng, ok := proteinPerKg[goal]
	if !ok {
		return p
	}

	grams := calories * p.Protein / 100 / kcalPerGramProtein
	perKg := grams / weightKG

	switch {
	case perKg < rng.min:
		needed := weightKG * rng.min * kcalPerGramProtein / calories * 100
		increase := needed - p.Protein
		return MacroPercentages{
			Protein: math.Min(needed, proteinLimit.max),
			Carbs:   math.Max(p.Carbs-increase*0.6, carbsLimit.min),
			Fat:     math.Max(p.Fat-increase*0.4, fatLimit.min),
		}
	case perKg > rng.max:
		allowed := weightKG * rng.max * kcalPerGramProtein / calories * 100
		decrease := p.Protein - allowed
		return MacroPercentages{
			Protein: math.Max(allowed, proteinLimit.min),
			Carbs:   math.Min(p.Carbs+decrease*0.6, carbsLimit.max),
			Fat:     math.Min(p.Fat+decrease*0.4, fatLimit.max),
		}
	}
	return p
}

func clampAll(p MacroPercentages, adjust float64) MacroPercentages {
	return MacroPercentages{
		Protein: proteinLimit.clamp(p.Protein + adjust),
		Carbs:   carbsLimit.clamp(p.Carbs + adjust),
		Fat:     fatLimit.clamp(p.Fat + adjust),
	}
}

// enforcePercentageLimits clamps every macro to its global bound and then
// tries to bring the sum back to 100: first by spreading the gap evenly,
// then by pushing whatever is left into fat. When the bounds conflict the
// result can still miss 100; every value always stays in bounds.
func enforcePercentageLimits(p MacroPercentages) MacroPercentages {
	p = clampAll(p, 0)

	total := p.Sum()
	if total == 100 {
		return p
	}
	p = clampAll(p, (100-total)/3)

	if final := p.Sum(); final != 100 {
		p.Fat = fatLimit.clamp(p.Fat + 100 - final)
	}
	return p
}

// ResolveMacroPercentages runs the full percentage pipeline: base lookup,
// speed and age adjustments, protein-range reconciliation and bound
// enforcement. An unknown goal/diet pair starts from the classic split for
// the goal, or the maintain/classic split when the goal itself is unknown.
func ResolveMacroPercentages(in PlanInput, calories float64) MacroPercentages {
	p, ok := BaseMacroPercentages(in.Goal, in.dietType())
	if !ok {
		if p, ok = BaseMacroPercentages(in.Goal, DietClassic); !ok {
			p, _ = BaseMacroPercentages(GoalMaintain, DietClassic)
		}
	}

	p = adjustForSpeed(p, in.Goal, in.weeklyChange())
	p = adjustForAge(p, in.Age)
	p = reconcileProteinRange(p, in.Goal, in.Weight, calories)
	return enforcePercentageLimits(p)
}

// MacroGramsFor converts a percentage split at the given calorie target into
// grams.
func MacroGramsFor(calories float64, p MacroPercentages) MacroGrams {
	return MacroGrams{
		Protein: int(round(calories * p.Protein / 100 / kcalPerGramProtein)),
		Fat:     int(round(calories * p.Fat / 100 / kcalPerGramFat)),
		Carbs:   int(round(calories * p.Carbs / 100 / kcalPerGramCarbs)),
	}
}
