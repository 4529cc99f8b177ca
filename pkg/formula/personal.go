package formula

import (
	"math"
	"time"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/datetime"
	"github.com/iwvelando/fincalculate/pkg/format"
	"github.com/iwvelando/fincalculate/pkg/loans"
	"github.com/iwvelando/fincalculate/pkg/mathutil"
)

const (
	defaultMonthsCovered = 6
	shortSavingsPlan     = 6
	longSavingsPlan      = 12
)

// Budget totals monthly spending, savings included, against income.
func Budget(v Values) []Result {
	income := v.Get("income")
	housing := v.Get("housing")
	savings := v.Get("savings")
	debt := v.Get("debt")
	total := housing + v.Get("transportation") + v.Get("food") + v.Get("utilities") +
		v.Get("insurance") + debt + savings + v.Get("other")

	share := func(amount float64) float64 {
		return mathutil.CalculatePercentage(amount, income)
	}

	return []Result{
		currency("Total Expenses", total).asPrimary(),
		currency("Remaining Balance", income-total).asPrimary(),
		percent("Housing % of Income", share(housing)),
		percent("Savings Rate", share(savings)),
		percent("Debt-to-Income", share(debt)),
	}
}

// NetWorth subtracts liabilities from assets.
func NetWorth(v Values) []Result {
	assets := v.Get("cash") + v.Get("investments") + v.Get("retirement") +
		v.Get("realEstate") + v.Get("vehicles") + v.Get("otherAssets")
	liabilities := v.Get("mortgage") + v.Get("loans") + v.Get("creditCards") + v.Get("otherDebts")
	debtToAsset := mathutil.CalculatePercentage(liabilities, assets)

	return []Result{
		currency("Net Worth", assets-liabilities).asPrimary(),
		currency("Total Assets", assets),
		currency("Total Liabilities", liabilities),
		percent("Debt-to-Asset Ratio", debtToAsset),
	}
}

// PayoffSimulation is the month-by-month outcome of paying down a balance.
type PayoffSimulation struct {
	Months        int
	TotalInterest float64
	Remaining     float64
	Saturated     bool
}

// SimulatePayoff applies a fixed payment each month until the balance is gone
// or constants.MaxSimulationMonths is reached.
func SimulatePayoff(balance, annualRate, payment float64) PayoffSimulation {
	monthlyRate := loans.MonthlyRate(annualRate)
	sim := PayoffSimulation{Remaining: balance}
	for sim.Remaining > 0 && sim.Months < constants.MaxSimulationMonths {
		interest := sim.Remaining * monthlyRate
		sim.TotalInterest += interest
		sim.Remaining -= payment - interest
		sim.Months++
	}
	sim.Saturated = sim.Remaining > 0
	return sim
}

// DebtPayoff reports how long a fixed payment takes to clear a balance.
// The payoff date is counted from now.
func DebtPayoff(v Values, now time.Time) ([]Result, bool) {
	balance := v.Get("balance")
	sim := SimulatePayoff(balance, v.Get("interestRate"), v.Get("monthlyPayment"))
	payoff := datetime.OffsetMonths(now, sim.Months)

	return []Result{
		text("Months to Payoff", float64(sim.Months), format.Months(sim.Months)).asPrimary(),
		currency("Total Interest Paid", sim.TotalInterest).asPrimary(),
		currency("Total Cost", balance+sim.TotalInterest),
		text("Payoff Date", 0, datetime.FormatMonthYear(payoff)),
	}, sim.Saturated
}

// SavingsGoal counts the months of contributions needed to reach a goal.
func SavingsGoal(v Values) ([]Result, bool) {
	goal := v.Get("goalAmount")
	current := v.Get("currentSavings")
	contribution := v.Get("monthlyContribution")
	monthlyRate := loans.MonthlyRate(v.Get("interestRate"))

	months := 0
	balance := current
	for balance < goal && months < constants.MaxSimulationMonths {
		balance = balance*(1+monthlyRate) + contribution
		months++
	}
	saturated := balance < goal

	needed := goal - current
	horizon := float64(constants.RequiredMonthlyHorizonMonths)
	required := needed / horizon
	if needed > 0 && monthlyRate > 0 {
		required = needed * monthlyRate / (math.Pow(1+monthlyRate, horizon) - 1)
	}

	return []Result{
		text("Months to Goal", float64(months), format.YearsAndMonths(months)).asPrimary(),
		currency("Amount Needed", needed),
		currency("Required Monthly (5 years)", required),
	}, saturated
}

// EmergencyFund sizes a cash reserve and the monthly saving needed to fill it.
func EmergencyFund(v Values) []Result {
	target := v.Get("monthlyExpenses") * v.GetOr("monthsCovered", defaultMonthsCovered)
	current := v.Get("currentSavings")
	gap := math.Max(0, target-current)
	funded := mathutil.CalculatePercentage(current, target)

	return []Result{
		currency("Emergency Fund Target", target).asPrimary(),
		currency("Amount Needed", gap).asPrimary(),
		percent("Percent Funded", funded),
		currency("Monthly to Save (6 mo)", gap/shortSavingsPlan),
		currency("Monthly to Save (12 mo)", gap/longSavingsPlan),
	}
}
