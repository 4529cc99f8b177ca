package batch

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/testutil"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

const mortgageCSV = `homePrice,downPayment,interestRate,loanTerm
400000,80000,6.5,30
"$300,000",60000,7%,15

250000,n/a,6,
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(mortgageCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records (blank lines are skipped by the reader), got %d", len(records))
	}
	if records[2][0] != "$300,000" {
		t.Errorf("quoted cell = %q", records[2][0])
	}
}

func TestParse(t *testing.T) {
	records := [][]string{
		{"\ufeffhomePrice", " downPayment ", "", "interestRate"},
		{"400000", "80000", "ignored", "6.5"},
		{"", " ", ""},
		{"300000", "abc"},
	}

	rows, err := Parse(records)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Errorf("first row line = %d, expected 2", first.Line)
	}
	if first.Values["homePrice"] != 400000 || first.Values["downPayment"] != 80000 || first.Values["interestRate"] != 6.5 {
		t.Errorf("first row values = %v", first.Values)
	}
	if len(first.Values) != 3 {
		t.Errorf("blank header column should be ignored, got %v", first.Values)
	}

	second := rows[1]
	if second.Line != 4 {
		t.Errorf("second row line = %d, expected 4", second.Line)
	}
	if second.Values["downPayment"] != 0 || second.Values["interestRate"] != 0 {
		t.Errorf("unparseable and missing cells should read as 0, got %v", second.Values)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
	}{
		{"empty", nil},
		{"blank header", [][]string{{"", " "}, {"1", "2"}}},
		{"duplicate header", [][]string{{"income", "debt", "income"}, {"5000", "200", "6000"}}},
		{"duplicate after trimming", [][]string{{"\ufeffincome", " income "}, {"5000", "6000"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.records); err == nil {
				t.Errorf("Parse() expected error")
			}
		})
	}

	rows, err := Parse([][]string{{"income"}})
	if err != nil || len(rows) != 0 {
		t.Errorf("header-only file = %v, %v; expected no rows", rows, err)
	}
}

func TestEvaluateFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mortgages.csv")
	if err := os.WriteFile(path, []byte(mortgageCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewProcessor(nil).EvaluateFile(formula.KindMortgage, path, fixedNow)
	if err != nil {
		t.Fatalf("EvaluateFile() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	payment := testutil.FindResult(rows[0].Outcome.Results, "Monthly Payment")
	if payment == nil || math.Abs(payment.Value-2022.62) > 0.01 {
		t.Errorf("row 1 Monthly Payment = %v, expected 2022.62", payment)
	}

	// 250000 with an unreadable down payment and default 30 year term.
	loan := testutil.FindResult(rows[2].Outcome.Results, "Loan Amount")
	if loan == nil || loan.Value != 250000 {
		t.Errorf("row 3 Loan Amount = %v, expected 250000", loan)
	}

	outcomes := Outcomes(rows)
	if len(outcomes) != 3 || outcomes[1].Kind != formula.KindMortgage {
		t.Errorf("Outcomes() = %v", outcomes)
	}
}

func TestEvaluateFileXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debts.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"balance", "interestRate", "monthlyPayment"},
		{10000, 18, 300},
		{10000, 24, 150},
	}
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	_ = f.Close()

	rows, err := NewProcessor(nil).EvaluateFile(formula.KindDebtPayoff, path, fixedNow)
	if err != nil {
		t.Fatalf("EvaluateFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	months := testutil.FindResult(rows[0].Outcome.Results, "Months to Payoff")
	if months == nil || months.Value != 47 {
		t.Errorf("Months to Payoff = %v, expected 47", months)
	}
	if rows[0].Outcome.Saturated {
		t.Errorf("row 1 should not saturate")
	}
	if !rows[1].Outcome.Saturated {
		t.Errorf("row 2 should saturate")
	}
}

func TestEvaluateErrors(t *testing.T) {
	p := NewProcessor(nil)
	if _, err := p.Evaluate(formula.KindUnknown, []Row{{Values: formula.Values{}}}, fixedNow); err == nil {
		t.Errorf("Evaluate() expected error for unknown kind")
	}

	path := filepath.Join(t.TempDir(), "inputs.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EvaluateFile(formula.KindBudget, path, fixedNow); err == nil {
		t.Errorf("EvaluateFile() expected error for unsupported extension")
	}
	if _, err := p.EvaluateFile(formula.KindBudget, filepath.Join(t.TempDir(), "missing.csv"), fixedNow); err == nil {
		t.Errorf("EvaluateFile() expected error for missing file")
	}
}
