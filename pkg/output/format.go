// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var saturationNote = fmt.Sprintf("simulation stopped at the %d month cap; the figures are not a true payoff", constants.MaxSimulationMonths)

// PrettyFormat outputs a human-readable rather than machine-readable table.
// Primary results are marked with an asterisk.
func PrettyFormat(w io.Writer, outcome formula.Outcome) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "--- Results for %s ---\n", outcome.Kind.Key()); err != nil {
		return err
	}
	for _, r := range outcome.Results {
		marker := " "
		if r.Primary {
			marker = "*"
		}
		if _, err := p.Fprintf(w, "%s %-48s | %s\n", marker, r.Label, r.Formatted); err != nil {
			return err
		}
	}
	if outcome.Saturated {
		if _, err := fmt.Fprintf(w, "note: %s\n", saturationNote); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, outcome formula.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"calculator", "label", "value", "formatted", "primary"}); err != nil {
		return err
	}
	if err := writeOutcomeRows(cw, outcome); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// CsvFormatAll writes every outcome under a single header row.
func CsvFormatAll(w io.Writer, outcomes []formula.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"calculator", "label", "value", "formatted", "primary"}); err != nil {
		return err
	}
	for _, outcome := range outcomes {
		if err := writeOutcomeRows(cw, outcome); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeOutcomeRows(cw *csv.Writer, outcome formula.Outcome) error {
	for _, r := range outcome.Results {
		record := []string{
			outcome.Kind.Key(),
			r.Label,
			strconv.FormatFloat(r.Value, 'f', 2, 64),
			r.Formatted,
			strconv.FormatBool(r.Primary),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// PrettySchedule prints an amortization schedule with grouped currency amounts.
func PrettySchedule(w io.Writer, schedule []loans.Payment) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "Month | Payment      | Principal    | Interest     | Balance\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "_____ | ____________ | ____________ | ____________ | _______\n"); err != nil {
		return err
	}
	for _, payment := range schedule {
		if _, err := p.Fprintf(w, "%5d | $%11.2f | $%11.2f | $%11.2f | $%.2f\n",
			payment.Month, payment.Payment, payment.Principal, payment.Interest, payment.RemainingPrincipal); err != nil {
			return err
		}
	}
	return nil
}

// CsvSchedule writes an amortization schedule as CSV.
func CsvSchedule(w io.Writer, schedule []loans.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "payment", "principal", "interest", "remaining"}); err != nil {
		return err
	}
	for _, payment := range schedule {
		record := []string{
			strconv.Itoa(payment.Month),
			strconv.FormatFloat(payment.Payment, 'f', 2, 64),
			strconv.FormatFloat(payment.Principal, 'f', 2, 64),
			strconv.FormatFloat(payment.Interest, 'f', 2, 64),
			strconv.FormatFloat(payment.RemainingPrincipal, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
