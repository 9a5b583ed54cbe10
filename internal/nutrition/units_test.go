package nutrition

import (
	"errors"
	"testing"
)

func TestHeightToCM(t *testing.T) {
	cases := []struct {
		v    float64
		unit string
		want float64
	}{
		{180, "", 180},
		{180, "cm", 180},
		{70, "in", 177.8},
		{70, " IN ", 177.8},
	}
	for _, tc := range cases {
		got, err := HeightToCM(tc.v, tc.unit)
		if err != nil {
			t.Fatalf("HeightToCM(%v, %q) error: %v", tc.v, tc.unit, err)
		}
		if !approxEqual(got, tc.want) {
			t.Errorf("HeightToCM(%v, %q) = %v, want %v", tc.v, tc.unit, got, tc.want)
		}
	}
}

func TestWeightToKG(t *testing.T) {
	got, err := WeightToKG(176.3696, "lbs")
	if err != nil {
		t.Fatalf("WeightToKG error: %v", err)
	}
	if !approxEqual(got, 80) {
		t.Errorf("WeightToKG(176.3696, lbs) = %v, want 80", got)
	}
	if got, _ := WeightToKG(80, "kg"); got != 80 {
		t.Errorf("WeightToKG(80, kg) = %v, want 80", got)
	}
	if back := KGToLBS(80); !approxEqual(back, 176.3696) {
		t.Errorf("KGToLBS(80) = %v, want 176.3696", back)
	}
}

func TestUnits_Unknown(t *testing.T) {
	if _, err := HeightToCM(6, "ft"); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("HeightToCM(ft) error = %v, want ErrInvalidUnit", err)
	}
	if _, err := WeightToKG(12, "stone"); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("WeightToKG(stone) error = %v, want ErrInvalidUnit", err)
	}
}

/* ─── Enum parsing tests ─────────────────────────────────────────────── */

func TestParse_Valid(t *testing.T) {
	if g, err := ParseGender("other"); err != nil || g != Other {
		t.Errorf("ParseGender(other) = %q, %v", g, err)
	}
	if g, err := ParseGoal("gain_muscle"); err != nil || g != GoalGainMuscle {
		t.Errorf("ParseGoal(gain_muscle) = %q, %v", g, err)
	}
	if a, err := ParseWeekActivity("6+"); err != nil || a != ActivityHigh {
		t.Errorf("ParseWeekActivity(6+) = %q, %v", a, err)
	}
	if d, err := ParseDietType(""); err != nil || d != DietClassic {
		t.Errorf("ParseDietType(\"\") = %q, %v", d, err)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"gender", func() error { _, err := ParseGender("robot"); return err }(), ErrInvalidGender},
		{"goal", func() error { _, err := ParseGoal("bulk"); return err }(), ErrInvalidGoal},
		{"activity", func() error { _, err := ParseWeekActivity("7"); return err }(), ErrInvalidActivity},
		{"diet", func() error { _, err := ParseDietType("keto"); return err }(), ErrInvalidDietType},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, tc.err, tc.want)
		}
	}
}
