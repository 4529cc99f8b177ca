// Package loans provides amortizing-loan primitives shared by the loan calculators.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/mathutil"
	"go.uber.org/zap"
)

// MaxScheduleMonths bounds the length of a generated amortization schedule.
const MaxScheduleMonths = 1200

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Summary is the closed-form cost of an amortizing loan.
type Summary struct {
	Principal      float64
	MonthlyPayment float64
	TotalCost      float64
	TotalInterest  float64
}

// MonthlyRate converts an annual percentage rate into a monthly decimal rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// A non-positive principal or term yields 0; a non-positive rate amortizes principal evenly.
func CalculateMonthlyPayment(principal, annualInterestRate, termMonths float64) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	if periodicInterestRate <= 0 {
		return principal / termMonths
	}

	power := math.Pow(1.00+periodicInterestRate, termMonths)
	return principal * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// Summarize computes payment, total cost, and total interest for a loan.
func Summarize(principal, annualInterestRate, termMonths float64) Summary {
	payment := CalculateMonthlyPayment(principal, annualInterestRate, termMonths)
	totalCost := 0.0
	if termMonths > 0 {
		totalCost = payment * termMonths
	}
	return Summary{
		Principal:      principal,
		MonthlyPayment: payment,
		TotalCost:      totalCost,
		TotalInterest:  totalCost - principal,
	}
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete month-by-month amortization schedule.
// Fractional terms are rounded to the nearest whole month.
func (g *AmortizationScheduleGenerator) GenerateSchedule(principal, annualInterestRate, termMonths float64) ([]Payment, error) {
	term := int(math.Round(termMonths))
	if term <= 0 {
		return nil, fmt.Errorf("loan term must be at least one month, got %v", termMonths)
	}
	if term > MaxScheduleMonths {
		return nil, fmt.Errorf("loan term of %d months exceeds the %d month schedule limit", term, MaxScheduleMonths)
	}
	if principal <= 0 {
		return []Payment{}, nil
	}

	monthlyPayment := CalculateMonthlyPayment(principal, annualInterestRate, float64(term))
	schedule := make([]Payment, 0, term)
	remaining := principal

	for month := 1; month <= term; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(remaining, annualInterestRate)
		current.Principal = monthlyPayment - current.Interest

		if month == term || mathutil.Round(remaining-current.Principal) <= 0 {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			if month != term {
				g.logger.Debug(fmt.Sprintf("loan paid off early at month %d of %d", month, term),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}

		current.RemainingPrincipal = remaining - current.Principal
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.Int("months", len(schedule)),
		zap.Float64("monthlyPayment", monthlyPayment),
	)

	return schedule, nil
}
