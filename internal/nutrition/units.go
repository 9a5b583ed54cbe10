package nutrition

import (
	"fmt"
	"strings"
)

const (
	lbsPerKg = 2.20462
	cmPerIn  = 2.54
)

// HeightToCM converts a height given in unit ("cm" or "in") to centimeters.
// An empty unit means centimeters.
func HeightToCM(v float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "cm":
		return v, nil
	case "in":
		return v * cmPerIn, nil
	}
	return 0, fmt.Errorf("%w: height unit %q", ErrInvalidUnit, unit)
}

// WeightToKG converts a weight given in unit ("kg" or "lbs") to kilograms.
// An empty unit means kilograms.
func WeightToKG(v float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "kg":
		return v, nil
	case "lb", "lbs":
		return v / lbsPerKg, nil
	}
	return 0, fmt.Errorf("%w: weight unit %q", ErrInvalidUnit, unit)
}

func KGToLBS(kg float64) float64 {
	return kg * lbsPerKg
}
