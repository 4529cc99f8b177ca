package formula

import (
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/loans"
)

const (
	defaultMortgageTermYears   = 30
	defaultAutoLoanTermMonths  = 60
	defaultPersonalTermMonths  = 36
	defaultStudentTermYears    = 10
	defaultHomeEquityLTV       = 80
	defaultHomeEquityTermYears = 15
)

// LoanTerms extracts the principal, annual rate and term in months used by an
// amortizing calculator. ok is false for non-amortizing kinds.
func LoanTerms(kind Kind, v Values) (principal, annualRate, termMonths float64, ok bool) {
	annualRate = v.Get("interestRate")
	switch kind {
	case KindMortgage:
		principal = v.Get("homePrice") - v.Get("downPayment")
		termMonths = v.GetOr("loanTerm", defaultMortgageTermYears) * constants.MonthsPerYear
	case KindAutoLoan:
		principal = v.Get("carPrice") - v.Get("downPayment") - v.Get("tradeInValue")
		termMonths = v.GetOr("loanTerm", defaultAutoLoanTermMonths)
	case KindPersonalLoan:
		principal = v.Get("loanAmount")
		termMonths = v.GetOr("loanTerm", defaultPersonalTermMonths)
	case KindStudentLoan:
		principal = v.Get("loanAmount")
		termMonths = v.GetOr("loanTerm", defaultStudentTermYears) * constants.MonthsPerYear
	case KindHomeEquity:
		equity := v.Get("homeValue") - v.Get("mortgageBalance")
		principal = equity * v.GetOr("ltvRatio", defaultHomeEquityLTV) / constants.PercentageMultiplier
		termMonths = v.GetOr("loanTerm", defaultHomeEquityTermYears) * constants.MonthsPerYear
	default:
		return 0, 0, 0, false
	}
	return principal, annualRate, termMonths, true
}

// Mortgage computes principal and interest plus the all-in monthly housing payment.
func Mortgage(v Values) []Result {
	principal, rate, term, _ := LoanTerms(KindMortgage, v)
	s := loans.Summarize(principal, rate, term)
	totalMonthly := s.MonthlyPayment + v.Get("propertyTax") + v.Get("homeInsurance") + v.Get("hoaFees")

	return []Result{
		currency("Monthly Payment", s.MonthlyPayment).asPrimary(),
		currency("Total Monthly Payment (with taxes & insurance)", totalMonthly),
		currency("Loan Amount", principal),
		currency("Total Interest Paid", s.TotalInterest),
		currency("Total Cost of Loan", s.TotalCost),
	}
}

// AutoLoan finances the car price less down payment and trade-in.
func AutoLoan(v Values) []Result {
	principal, rate, term, _ := LoanTerms(KindAutoLoan, v)
	s := loans.Summarize(principal, rate, term)

	return []Result{
		currency("Monthly Payment", s.MonthlyPayment).asPrimary(),
		currency("Loan Amount", principal),
		currency("Total Interest Paid", s.TotalInterest),
		currency("Total Cost of Loan", s.TotalCost),
	}
}

// PersonalLoan takes its term in months.
func PersonalLoan(v Values) []Result {
	principal, rate, term, _ := LoanTerms(KindPersonalLoan, v)
	return simpleLoan(loans.Summarize(principal, rate, term))
}

// StudentLoan takes its term in years.
func StudentLoan(v Values) []Result {
	principal, rate, term, _ := LoanTerms(KindStudentLoan, v)
	return simpleLoan(loans.Summarize(principal, rate, term))
}

func simpleLoan(s loans.Summary) []Result {
	return []Result{
		currency("Monthly Payment", s.MonthlyPayment).asPrimary(),
		currency("Total Interest Paid", s.TotalInterest),
		currency("Total Cost of Loan", s.TotalCost),
	}
}

// HomeEquity sizes the largest loan the LTV ratio allows against current equity.
func HomeEquity(v Values) []Result {
	equity := v.Get("homeValue") - v.Get("mortgageBalance")
	principal, rate, term, _ := LoanTerms(KindHomeEquity, v)
	s := loans.Summarize(principal, rate, term)

	return []Result{
		currency("Available Equity", equity).asPrimary(),
		currency("Maximum Loan Amount", principal).asPrimary(),
		currency("Monthly Payment", s.MonthlyPayment),
		currency("Total Interest Paid", s.TotalInterest),
	}
}
