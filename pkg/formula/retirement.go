package formula

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/format"
	"github.com/iwvelando/fincalculate/pkg/mathutil"
)

const (
	defaultCurrentAge        = 30
	defaultRetirementAge     = 65
	defaultYearsWorked       = 15
	benefitSalaryFactor      = 0.004
	earlyClaimReductionRate  = 0.00667
	delayedClaimIncreaseRate = 0.008
	immediateAnnuity         = 1
)

// Retirement401k grows employee plus matched employer contributions annually.
func Retirement401k(v Values) []Result {
	salary := v.Get("salary")
	annual := salary * v.Get("contributionPercent") / constants.PercentageMultiplier
	matchLimit := salary * v.Get("matchLimit") / constants.PercentageMultiplier
	employer := math.Min(annual, matchLimit) * v.Get("employerMatch") / constants.PercentageMultiplier
	totalAnnual := annual + employer
	years := v.Get("years")

	fv := AnnuityFutureValue(totalAnnual, mathutil.PercentToDecimal(v.Get("returnRate")), years)
	contributions := totalAnnual * years

	return []Result{
		currency("401(k) Balance", fv).asPrimary(),
		currency("Total Contributions", contributions),
		currency("Investment Earnings", fv-contributions).asPrimary(),
		currency("Annual Contribution", annual),
		currency("Employer Match", employer),
	}
}

func yearsUntilRetirement(v Values) float64 {
	return math.Max(0, v.GetOr("retirementAge", defaultRetirementAge)-v.GetOr("currentAge", defaultCurrentAge))
}

// IRA caps the annual contribution at the IRS limit.
func IRA(v Values) []Result {
	contribution := math.Min(v.Get("contribution"), constants.IRAContributionLimit)
	years := yearsUntilRetirement(v)

	fv := AnnuityFutureValue(contribution, mathutil.PercentToDecimal(v.Get("returnRate")), years)
	contributions := contribution * years

	return []Result{
		currency("IRA Balance at Retirement", fv).asPrimary(),
		currency("Total Contributions", contributions),
		currency("Investment Earnings", fv-contributions).asPrimary(),
		text("Years Until Retirement", years, format.Years(years)),
	}
}

// SocialSecurityBenefit estimates the monthly benefit when claiming at claimAge.
func SocialSecurityBenefit(salary, yearsWorked, claimAge float64) float64 {
	benefit := salary * benefitSalaryFactor * math.Min(yearsWorked, constants.MaxCreditedWorkYears)
	switch {
	case claimAge < constants.FullRetirementAge:
		benefit *= 1 - (constants.FullRetirementAge-claimAge)*earlyClaimReductionRate
	case claimAge > constants.FullRetirementAge:
		benefit *= 1 + (claimAge-constants.FullRetirementAge)*delayedClaimIncreaseRate
	}
	return benefit
}

// SocialSecurity estimates monthly, annual and lifetime benefits.
func SocialSecurity(v Values) []Result {
	claimAge := v.GetOr("retirementAge", constants.FullRetirementAge)
	monthly := SocialSecurityBenefit(v.Get("currentSalary"), v.GetOr("yearsWorked", defaultYearsWorked), claimAge)
	annual := monthly * constants.MonthsPerYear
	lifetime := math.Max(0, annual*(constants.LifeExpectancy-claimAge))

	return []Result{
		currency("Monthly Benefit", monthly).asPrimary(),
		currency("Annual Benefit", annual),
		currency("Estimated Lifetime Benefit", lifetime),
	}
}

// Annuity pays out an immediate annuity monthly, or grows a deferred one annually.
func Annuity(v Values) []Result {
	principal := v.Get("principal")
	rate := v.Get("interestRate") / constants.PercentageMultiplier
	years := v.Get("years")

	if v.Get("isImmediate") == immediateAnnuity {
		months := years * constants.MonthsPerYear
		monthlyRate := rate / constants.MonthsPerYear
		payment := 0.0
		if months > 0 {
			if monthlyRate == 0 {
				payment = principal / months
			} else {
				payment = principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -months))
			}
		}

		return []Result{
			currency("Monthly Payment", payment).asPrimary(),
			currency("Annual Payment", payment*constants.MonthsPerYear),
			currency("Total Payout", payment*months),
		}
	}

	fv := principal * math.Pow(1+rate, years)
	return []Result{
		currency("Future Value", fv).asPrimary(),
		currency("Total Earnings", fv-principal).asPrimary(),
		currency("Principal", principal),
	}
}

// RetirementSavings compounds monthly to retirement and applies the 4% rule.
func RetirementSavings(v Values) []Result {
	savings := v.Get("currentSavings")
	contribution := v.Get("monthlyContribution")
	months := yearsUntilRetirement(v) * constants.MonthsPerYear
	monthlyRate := v.Get("returnRate") / constants.PercentageMultiplier / constants.MonthsPerYear

	fv := FutureValue(savings, contribution, monthlyRate, months)
	contributions := savings + contribution*months
	income := fv * constants.SafeWithdrawalRate / constants.MonthsPerYear
	gap := math.Max(0, v.Get("desiredIncome")-income)

	return []Result{
		currency("Retirement Savings", fv).asPrimary(),
		currency("Monthly Retirement Income", income).asPrimary(),
		currency("Total Contributions", contributions),
		currency("Investment Earnings", fv-contributions),
		currency("Income Gap", gap),
	}
}
