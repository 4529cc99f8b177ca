package formula

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/mathutil"
)

// TaxBracket is one marginal bracket covering [Min, Max).
type TaxBracket struct {
	Min  float64
	Max  float64
	Rate float64
}

// 2024 federal brackets.
var (
	SingleBrackets = []TaxBracket{
		{0, 11600, 0.10},
		{11600, 47150, 0.12},
		{47150, 100525, 0.22},
		{100525, 191950, 0.24},
		{191950, 243725, 0.32},
		{243725, 609350, 0.35},
		{609350, math.Inf(1), 0.37},
	}
	MarriedJointBrackets = []TaxBracket{
		{0, 23200, 0.10},
		{23200, 94300, 0.12},
		{94300, 201050, 0.22},
		{201050, 383900, 0.24},
		{383900, 487450, 0.32},
		{487450, 731200, 0.35},
		{731200, math.Inf(1), 0.37},
	}
)

const filingStatusMarriedJoint = 2

// ProgressiveTax accumulates tax across every bracket the taxable income reaches.
func ProgressiveTax(taxableIncome float64, brackets []TaxBracket) float64 {
	tax := 0.0
	for _, b := range brackets {
		if taxableIncome > b.Min {
			tax += (math.Min(taxableIncome, b.Max) - b.Min) * b.Rate
		}
	}
	return tax
}

// IncomeTax estimates federal tax plus a flat state rate.
func IncomeTax(v Values) []Result {
	income := v.Get("income")
	taxable := math.Max(0, income-v.Get("deductions"))

	brackets := SingleBrackets
	if v.GetOr("filingStatus", 1) == filingStatusMarriedJoint {
		brackets = MarriedJointBrackets
	}

	federal := ProgressiveTax(taxable, brackets)
	state := taxable * v.Get("stateTaxRate") / constants.PercentageMultiplier
	total := federal + state
	effective := mathutil.CalculatePercentage(total, income)

	return []Result{
		currency("Total Tax", total).asPrimary(),
		currency("Federal Tax", federal),
		currency("State Tax", state),
		percent("Effective Tax Rate", effective),
		currency("After-Tax Income", income-total),
	}
}

// CapitalGainsRate returns the percentage rate applied to a gain.
func CapitalGainsRate(income float64, longTerm bool) float64 {
	if longTerm {
		switch {
		case income <= 47025:
			return 0
		case income <= 518900:
			return 15
		default:
			return 20
		}
	}
	switch {
	case income <= 11600:
		return 10
	case income <= 47150:
		return 12
	case income <= 100525:
		return 22
	default:
		return 24
	}
}

// CapitalGains treats holdings of twelve months or more as long-term.
func CapitalGains(v Values) []Result {
	gain := v.Get("salePrice") - v.Get("purchasePrice")
	longTerm := v.GetOr("holdingPeriod", constants.MonthsPerYear) >= constants.MonthsPerYear
	rate := CapitalGainsRate(v.Get("income"), longTerm)
	tax := gain * rate / constants.PercentageMultiplier

	return []Result{
		currency("Capital Gain", gain).asPrimary(),
		currency("Estimated Tax", tax).asPrimary(),
		percent("Tax Rate", rate),
		currency("Net Gain After Tax", gain-tax),
	}
}

const (
	socialSecurityTaxRate     = 0.124
	medicareTaxRate           = 0.029
	additionalMedicareTaxRate = 0.009
	defaultSEDeductionPercent = 50
)

// SelfEmploymentTax applies Social Security up to the wage base plus Medicare.
func SelfEmploymentTax(v Values) []Result {
	net := v.Get("netIncome")
	taxable := net * (1 - v.GetOr("deductionPercent", defaultSEDeductionPercent)/constants.PercentageMultiplier)

	socialSecurity := math.Min(taxable, constants.SocialSecurityWageBase) * socialSecurityTaxRate
	medicare := taxable * medicareTaxRate
	additional := 0.0
	if taxable > constants.AdditionalMedicareThreshold {
		additional = (taxable - constants.AdditionalMedicareThreshold) * additionalMedicareTaxRate
	}
	total := socialSecurity + medicare + additional
	effective := mathutil.CalculatePercentage(total, net)

	return []Result{
		currency("Self-Employment Tax", total).asPrimary(),
		currency("Social Security Tax", socialSecurity),
		currency("Medicare Tax", medicare),
		percent("Effective Tax Rate", effective),
	}
}

// PropertyTax applies the rate to the assessed share of the home value.
func PropertyTax(v Values) []Result {
	rate := v.Get("taxRate")
	assessed := v.Get("homeValue") * v.GetOr("assessmentRatio", 100) / constants.PercentageMultiplier
	annual := assessed * rate / constants.PercentageMultiplier

	return []Result{
		currency("Annual Property Tax", annual).asPrimary(),
		currency("Monthly Property Tax", annual/constants.MonthsPerYear),
		currency("Assessed Value", assessed),
		percent("Effective Tax Rate", rate),
	}
}

// SalesTax adds tax to a purchase amount.
func SalesTax(v Values) []Result {
	amount := v.Get("purchaseAmount")
	tax := amount * v.Get("taxRate") / constants.PercentageMultiplier

	return []Result{
		currency("Sales Tax", tax).asPrimary(),
		currency("Total Amount", amount+tax).asPrimary(),
		currency("Subtotal", amount),
	}
}
