package formula

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/format"
)

// Result is one labeled output row of a calculation.
type Result struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Primary   bool    `json:"isPrimary,omitempty"`
}

// Outcome is the full output of evaluating one calculator.
type Outcome struct {
	Kind    Kind     `json:"kind"`
	Results []Result `json:"results"`
	// Saturated is set when an iterative simulation stopped at
	// constants.MaxSimulationMonths without converging.
	Saturated bool `json:"saturated"`
}

// Primary returns the rows flagged for display emphasis.
func (o Outcome) Primary() []Result {
	var primary []Result
	for _, r := range o.Results {
		if r.Primary {
			primary = append(primary, r)
		}
	}
	return primary
}

// Find returns the row with the given label.
func (o Outcome) Find(label string) (Result, bool) {
	for _, r := range o.Results {
		if r.Label == label {
			return r, true
		}
	}
	return Result{}, false
}

func (r Result) asPrimary() Result {
	r.Primary = true
	return r
}

func finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

func currency(label string, value float64) Result {
	value = finite(value)
	return Result{Label: label, Value: value, Formatted: format.Currency(value)}
}

func percent(label string, value float64) Result {
	value = finite(value)
	return Result{Label: label, Value: value, Formatted: format.Percent(value)}
}

func text(label string, value float64, formatted string) Result {
	return Result{Label: label, Value: finite(value), Formatted: formatted}
}
