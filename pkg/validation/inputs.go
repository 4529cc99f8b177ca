package validation

import (
	"fmt"
	"math"
)

// InputBounds describes the declared limits of one calculator input.
type InputBounds struct {
	Name     string
	Label    string
	Min      *float64
	Max      *float64
	Required bool
}

// CheckInputs compares values against their declared bounds and returns a
// warning per violation. Formulas still run on out-of-range values, so these
// are advisory.
func CheckInputs(bounds []InputBounds, values map[string]float64) []string {
	var warnings []string
	for _, b := range bounds {
		label := b.Label
		if label == "" {
			label = b.Name
		}

		value, ok := values[b.Name]
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			if b.Required {
				warnings = append(warnings, fmt.Sprintf("%s is required; using 0", label))
			}
			continue
		}

		if b.Min != nil && value < *b.Min {
			warnings = append(warnings, fmt.Sprintf("%s of %g is below the minimum of %g", label, value, *b.Min))
		}
		if b.Max != nil && value > *b.Max {
			warnings = append(warnings, fmt.Sprintf("%s of %g is above the maximum of %g", label, value, *b.Max))
		}
	}
	return warnings
}

// UnknownInputs returns the names in values that no bound declares.
func UnknownInputs(bounds []InputBounds, values map[string]float64) []string {
	declared := make(map[string]bool, len(bounds))
	for _, b := range bounds {
		declared[b.Name] = true
	}

	var unknown []string
	for name := range values {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
