package catalog

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
)

// Assumptions used for the worked example on state mortgage pages.
const (
	StateDownPaymentShare = 0.20
	StateExampleRate      = 6.5
	StateExampleTermYears = 30
	StateExampleInsurance = 150
	StateExampleHOA       = 0
)

// StateProfile parameterizes the mortgage calculator for one US state.
type StateProfile struct {
	Key                    string  `yaml:"key" json:"key"`
	State                  string  `yaml:"state" json:"state"`
	Code                   string  `yaml:"code" json:"code"`
	PropertyTaxRate        float64 `yaml:"propertyTaxRate" json:"propertyTaxRate"`
	AvgHomePrice           float64 `yaml:"avgHomePrice" json:"avgHomePrice"`
	Intro                  string  `yaml:"intro" json:"intro"`
	PropertyTaxDescription string  `yaml:"propertyTaxDescription" json:"propertyTaxDescription"`
	LocalExample           string  `yaml:"localExample" json:"localExample"`
	FAQs                   []FAQ   `yaml:"faqs" json:"faqs"`
}

// MonthlyPropertyTax is the state's average annual tax on the average home, per month, rounded to whole dollars.
func (s *StateProfile) MonthlyPropertyTax() float64 {
	return math.Round(s.AvgHomePrice * s.PropertyTaxRate / constants.PercentageMultiplier / constants.MonthsPerYear)
}

// ExampleValues builds mortgage inputs for an average home in the state.
func (s *StateProfile) ExampleValues() formula.Values {
	return formula.Values{
		"homePrice":     s.AvgHomePrice,
		"downPayment":   s.AvgHomePrice * StateDownPaymentShare,
		"interestRate":  StateExampleRate,
		"loanTerm":      StateExampleTermYears,
		"propertyTax":   s.MonthlyPropertyTax(),
		"homeInsurance": StateExampleInsurance,
		"hoaFees":       StateExampleHOA,
	}
}
