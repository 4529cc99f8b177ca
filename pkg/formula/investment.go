package formula

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/mathutil"
)

const (
	defaultCompoundFrequency = 12
	defaultInvestmentPeriod  = 1
	defaultDividendFrequency = 4
)

// FutureValue grows a lump sum and a recurring per-period contribution at a
// periodic rate. A zero rate takes the limit case of plain accumulation.
func FutureValue(principal, contribution, periodicRate, periods float64) float64 {
	if periodicRate == 0 {
		return principal + contribution*periods
	}
	growth := math.Pow(1+periodicRate, periods)
	return principal*growth + contribution*(growth-1)/periodicRate
}

// AnnuityFutureValue is the value of a level end-of-year contribution after years.
func AnnuityFutureValue(contribution, annualRate, years float64) float64 {
	return FutureValue(0, contribution, annualRate, years)
}

// CompoundInterest compounds n times per year with a recurring contribution each period.
func CompoundInterest(v Values) []Result {
	principal := v.Get("principal")
	rate := mathutil.PercentToDecimal(v.Get("rate"))
	years := v.Get("time")
	n := v.GetOr("compoundFrequency", defaultCompoundFrequency)
	contribution := v.Get("monthlyContribution")

	amount := FutureValue(principal, contribution, rate/n, n*years)
	contributions := principal + contribution*constants.MonthsPerYear*years

	return []Result{
		currency("Future Value", amount).asPrimary(),
		currency("Total Contributions", contributions),
		currency("Interest Earned", amount-contributions).asPrimary(),
	}
}

// ROI reports simple and annualized return. A non-positive initial investment yields 0%.
func ROI(v Values) []Result {
	initial := v.Get("initialInvestment")
	final := v.Get("finalValue")
	period := v.GetOr("investmentPeriod", defaultInvestmentPeriod)

	gain := final - initial
	roi, annualized := 0.0, 0.0
	if initial > 0 {
		roi = gain / initial * constants.PercentageMultiplier
		annualized = (math.Pow(final/initial, 1/period) - 1) * constants.PercentageMultiplier
	}

	return []Result{
		percent("Return on Investment (ROI)", roi).asPrimary(),
		percent("Annualized ROI", annualized).asPrimary(),
		currency("Total Gain", gain),
	}
}

// Dividend projects income from a per-share payout paid frequency times a year.
func Dividend(v Values) []Result {
	shares := v.Get("shares")
	perPeriod := shares * v.Get("dividendPerShare")
	annual := perPeriod * v.GetOr("frequency", defaultDividendFrequency)
	portfolio := shares * v.Get("sharePrice")
	yield := mathutil.CalculatePercentage(annual, portfolio)

	return []Result{
		currency("Annual Dividend Income", annual).asPrimary(),
		currency("Dividend Per Period", perPeriod),
		percent("Dividend Yield", yield),
		currency("Portfolio Value", portfolio),
	}
}

// StockReturn combines price appreciation and dividends against cost basis.
func StockReturn(v Values) []Result {
	shares := v.Get("shares")
	dividends := v.Get("dividends")
	costBasis := shares * v.Get("purchasePrice")
	current := shares * v.Get("currentPrice")
	capitalGain := current - costBasis
	total := capitalGain + dividends
	returnPercent := mathutil.CalculatePercentage(total, costBasis)

	return []Result{
		currency("Total Return", total).asPrimary(),
		percent("Return Percentage", returnPercent).asPrimary(),
		currency("Capital Gain", capitalGain),
		currency("Dividends Received", dividends),
		currency("Current Value", current),
	}
}

// MutualFund compounds monthly at the gross return less the expense ratio.
// Total Expenses is a flat approximation that does not reconcile with the
// difference between gross and net future value.
func MutualFund(v Values) []Result {
	initial := v.Get("initialInvestment")
	contribution := v.Get("monthlyContribution")
	years := v.Get("years")
	expenseRatio := mathutil.PercentToDecimal(v.Get("expenseRatio"))
	netReturn := mathutil.PercentToDecimal(v.Get("returnRate")) - expenseRatio

	months := years * constants.MonthsPerYear
	fv := FutureValue(initial, contribution, netReturn/constants.MonthsPerYear, months)
	contributions := initial + contribution*months

	return []Result{
		currency("Future Value", fv).asPrimary(),
		currency("Total Earnings", fv-contributions).asPrimary(),
		currency("Total Contributions", contributions),
		currency("Total Expenses", contributions*expenseRatio*years),
	}
}
