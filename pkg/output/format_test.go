package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/loans"
	"github.com/iwvelando/fincalculate/pkg/testutil"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func exampleOutcome(kind formula.Kind) formula.Outcome {
	return formula.Evaluate(kind, testutil.ExampleValues()[kind], fixedNow)
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, exampleOutcome(formula.KindMortgage)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "--- Results for mortgage-calculator ---") {
		t.Errorf("PrettyFormat missing calculator header")
	}
	if !strings.Contains(output, "* Monthly Payment") {
		t.Errorf("PrettyFormat missing primary marker")
	}
	if !strings.Contains(output, "$2,022.62") {
		t.Errorf("PrettyFormat missing formatted payment:\n%s", output)
	}
	if strings.Contains(output, "note:") {
		t.Errorf("PrettyFormat printed a saturation note for a convergent result")
	}
}

func TestPrettyFormatSaturated(t *testing.T) {
	outcome := formula.Evaluate(formula.KindDebtPayoff,
		formula.Values{"balance": 10000, "interestRate": 24, "monthlyPayment": 150}, fixedNow)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, outcome); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "600 month cap") {
		t.Errorf("PrettyFormat missing saturation note:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	outcome := exampleOutcome(formula.KindDebtPayoff)

	var buf bytes.Buffer
	if err := CsvFormat(&buf, outcome); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != len(outcome.Results)+1 {
		t.Fatalf("expected %d records, got %d", len(outcome.Results)+1, len(records))
	}
	if records[0][0] != "calculator" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][1] != "Months to Payoff" || records[1][2] != "47.00" || records[1][3] != "47 months" || records[1][4] != "true" {
		t.Errorf("unexpected first row %v", records[1])
	}
}

func TestCsvFormatAll(t *testing.T) {
	outcomes := []formula.Outcome{exampleOutcome(formula.KindAutoLoan), exampleOutcome(formula.KindIncomeTax)}

	var buf bytes.Buffer
	if err := CsvFormatAll(&buf, outcomes); err != nil {
		t.Fatalf("CsvFormatAll() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if want := 1 + len(outcomes[0].Results) + len(outcomes[1].Results); len(records) != want {
		t.Errorf("expected %d records, got %d", want, len(records))
	}
}

func TestSchedules(t *testing.T) {
	schedule, err := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(12000, 6, 12)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	var pretty bytes.Buffer
	if err := PrettySchedule(&pretty, schedule); err != nil {
		t.Fatalf("PrettySchedule() error = %v", err)
	}
	if lines := strings.Count(pretty.String(), "\n"); lines != 14 {
		t.Errorf("PrettySchedule wrote %d lines, expected 14", lines)
	}

	var buf bytes.Buffer
	if err := CsvSchedule(&buf, schedule); err != nil {
		t.Fatalf("CsvSchedule() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 13 {
		t.Fatalf("expected 13 records, got %d", len(records))
	}
	if records[12][4] != "0.00" {
		t.Errorf("final balance = %s, expected 0.00", records[12][4])
	}
}

func TestXlsxFormat(t *testing.T) {
	outcomes := []formula.Outcome{exampleOutcome(formula.KindMortgage), exampleOutcome(formula.KindCompoundInterest)}

	var buf bytes.Buffer
	if err := XlsxFormat(&buf, outcomes); err != nil {
		t.Fatalf("XlsxFormat() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "mortgage-calculator" || sheets[1] != "compound-interest-calculator" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows("mortgage-calculator")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != len(outcomes[0].Results)+1 {
		t.Fatalf("expected %d rows, got %d", len(outcomes[0].Results)+1, len(rows))
	}
	if rows[1][0] != "Monthly Payment" || rows[1][2] != "$2,022.62" {
		t.Errorf("unexpected first data row %v", rows[1])
	}

	if err := XlsxFormat(&bytes.Buffer{}, nil); err == nil {
		t.Error("XlsxFormat() expected error for no outcomes")
	}
}

func TestXlsxFormatRepeatedKinds(t *testing.T) {
	outcomes := []formula.Outcome{
		exampleOutcome(formula.KindMortgage),
		exampleOutcome(formula.KindMortgage),
		{Kind: formula.KindSelfEmploymentTax},
		{Kind: formula.KindSelfEmploymentTax},
	}

	var buf bytes.Buffer
	if err := XlsxFormat(&buf, outcomes); err != nil {
		t.Fatalf("XlsxFormat() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	want := []string{"mortgage-calculator", "mortgage-calculator 2", "self-employment-tax-calculator", "self-employment-tax-calculato 2"}
	sheets := f.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, expected %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, expected %q", i, sheets[i], want[i])
		}
	}
}

func TestPdfFormat(t *testing.T) {
	var buf bytes.Buffer
	err := PdfFormat(&buf, "", []formula.Outcome{exampleOutcome(formula.KindRetirementSavings)})
	if err != nil {
		t.Fatalf("PdfFormat() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}
