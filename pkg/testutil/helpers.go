// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/fincalculate/pkg/formula"
)

// FindResult finds a result row by label in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []formula.Result, label string) *formula.Result {
	for i := range results {
		if results[i].Label == label {
			return &results[i]
		}
	}
	return nil
}

// ExampleValues returns representative inputs for a selection of calculator kinds.
func ExampleValues() map[formula.Kind]formula.Values {
	return map[formula.Kind]formula.Values{
		formula.KindMortgage:          {"homePrice": 400000, "downPayment": 80000, "interestRate": 6.5, "loanTerm": 30, "propertyTax": 300, "homeInsurance": 150},
		formula.KindAutoLoan:          {"carPrice": 35000, "downPayment": 5000, "interestRate": 6, "loanTerm": 60},
		formula.KindDebtPayoff:        {"balance": 10000, "interestRate": 18, "monthlyPayment": 300},
		formula.KindCompoundInterest:  {"principal": 10000, "rate": 7, "time": 20, "compoundFrequency": 12, "monthlyContribution": 500},
		formula.KindIncomeTax:         {"income": 75000, "filingStatus": 1, "deductions": 13850, "stateTaxRate": 5},
		formula.KindRetirementSavings: {"currentAge": 35, "retirementAge": 65, "currentSavings": 50000, "monthlyContribution": 500, "returnRate": 7},
	}
}
