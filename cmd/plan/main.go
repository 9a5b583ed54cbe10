// CLI tool to compute a nutrition plan offline, without the API or a database.
// Usage: go run ./cmd/plan -gender male -age 30 -height 180 -weight 80 -goal lose -activity 1-3
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"avocal/nutrition-api/internal/nutrition"
)

type options struct {
	input  nutrition.PlanInput
	asJSON bool
}

// parseArgs turns command-line flags into a validated PlanInput.
func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	gender := fs.String("gender", "", "male, female or other")
	age := fs.Int("age", 0, "age in years")
	height := fs.Float64("height", 0, "height")
	heightUnit := fs.String("height-unit", "cm", "cm or in")
	weight := fs.Float64("weight", 0, "body weight")
	weightUnit := fs.String("weight-unit", "kg", "kg or lbs")
	goal := fs.String("goal", "", "lose, maintain, gain or gain_muscle")
	activity := fs.String("activity", "", "training sessions per week: 0, 1-3, 4-5 or 6+")
	diet := fs.String("diet", "classic", "classic, vegan or vegetarian")
	rate := fs.Float64("rate", 0, "weekly weight change in weight-unit per week (default 0.5 kg)")
	asJSON := fs.Bool("json", false, "print the plan as JSON")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var opts options
	var err error
	in := &opts.input

	if in.Gender, err = nutrition.ParseGender(*gender); err != nil {
		return options{}, err
	}
	if in.Goal, err = nutrition.ParseGoal(*goal); err != nil {
		return options{}, err
	}
	if in.WeekActivity, err = nutrition.ParseWeekActivity(*activity); err != nil {
		return options{}, err
	}
	if in.DietType, err = nutrition.ParseDietType(*diet); err != nil {
		return options{}, err
	}
	if *age <= 0 || *height <= 0 || *weight <= 0 {
		return options{}, fmt.Errorf("age, height and weight must be positive")
	}
	in.Age = *age
	if in.Height, err = nutrition.HeightToCM(*height, *heightUnit); err != nil {
		return options{}, err
	}
	if in.Weight, err = nutrition.WeightToKG(*weight, *weightUnit); err != nil {
		return options{}, err
	}
	rateSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "rate" {
			rateSet = true
		}
	})
	if rateSet {
		if *rate < 0 {
			return options{}, fmt.Errorf("rate must not be negative")
		}
		kg, err := nutrition.WeightToKG(*rate, *weightUnit)
		if err != nil {
			return options{}, err
		}
		in.WeeklyWeightChange = &kg
	}

	opts.asJSON = *asJSON
	return opts, nil
}

// render prints calc in human-readable form.
func render(w io.Writer, calc nutrition.Calculation) {
	r := calc.Result
	fmt.Fprintf(w, "BMR:       %.0f kcal\n", calc.BMR)
	fmt.Fprintf(w, "TDEE:      %d kcal\n", r.TDEE)
	fmt.Fprintf(w, "Target:    %d kcal/day\n", r.Calories)
	fmt.Fprintf(w, "Protein:   %d g (%.1f%%)\n", r.Macros.Protein, calc.Percentages.Protein)
	fmt.Fprintf(w, "Carbs:     %d g (%.1f%%)\n", r.Macros.Carbs, calc.Percentages.Carbs)
	fmt.Fprintf(w, "Fat:       %d g (%.1f%%)\n", r.Macros.Fat, calc.Percentages.Fat)
	for _, a := range calc.Advisories {
		fmt.Fprintf(w, "WARNING [%s]: %s\n", a.Code, a.Message)
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(1)
	}

	calc := nutrition.Calculate(opts.input)

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			nutrition.NutritionPlanResult
			Percentages nutrition.MacroPercentages `json:"percentages"`
			Advisories  []nutrition.Advisory       `json:"advisories"`
		}{calc.Result, calc.Percentages, calc.Advisories}); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plan: %v\n", err)
			os.Exit(1)
		}
		return
	}

	render(os.Stdout, calc)
}
