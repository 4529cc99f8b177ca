package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/phpdave11/gofpdf"
)

// PdfFormat renders a printable report with one results table per outcome.
func PdfFormat(w io.Writer, title string, outcomes []formula.Outcome) error {
	if title == "" {
		title = "Calculation Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(14)

	for _, outcome := range outcomes {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, outcome.Kind.Key())
		pdf.Ln(9)

		for _, r := range outcome.Results {
			style := ""
			if r.Primary {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			pdf.CellFormat(120, 7, r.Label, "B", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, r.Formatted, "B", 1, "R", false, 0, "")
		}

		if outcome.Saturated {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, "Note: "+saturationNote, "", "L", false)
		}
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}
