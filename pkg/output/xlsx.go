package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the Excel limit on worksheet names.
const maxSheetNameLength = 31

// sheetName names a worksheet after the calculator, numbering repeats.
func sheetName(outcome formula.Outcome, used map[string]bool) string {
	base := outcome.Kind.Key()
	if base == "" {
		base = "result"
	}
	name := truncateSheetName(base, "")
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = truncateSheetName(base, fmt.Sprintf(" %d", n))
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateSheetName(base, suffix string) string {
	if len(base)+len(suffix) > maxSheetNameLength {
		base = base[:maxSheetNameLength-len(suffix)]
	}
	return base + suffix
}

// XlsxFormat writes one worksheet per outcome.
func XlsxFormat(w io.Writer, outcomes []formula.Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]bool, len(outcomes))
	for i, outcome := range outcomes {
		sheet := sheetName(outcome, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &[]any{"Label", "Value", "Formatted", "Primary"}); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "D1", header); err != nil {
			return err
		}

		for row, r := range outcome.Results {
			cell, err := excelize.CoordinatesToCellName(1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &[]any{r.Label, r.Value, r.Formatted, r.Primary}); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, row+2, err)
			}
		}

		if outcome.Saturated {
			cell, err := excelize.CoordinatesToCellName(1, len(outcome.Results)+3)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, saturationNote); err != nil {
				return err
			}
		}

		if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "C", 18); err != nil {
			return err
		}
	}

	return f.Write(w)
}
