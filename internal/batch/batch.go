// Package batch evaluates one calculator over many input rows read from a
// spreadsheet or CSV file whose header row names the inputs.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Row is one evaluated input row. Line is the 1-based row number in the source.
type Row struct {
	Line    int             `json:"line"`
	Values  formula.Values  `json:"values"`
	Outcome formula.Outcome `json:"outcome"`
}

// ReadXLSX returns the cell text of the first worksheet.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ReadCSV returns the records of a CSV document. Rows may differ in length.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// ReadFile reads rows from an .xlsx or .csv file, chosen by extension.
func ReadFile(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(file)
	case ".csv":
		return ReadCSV(file)
	default:
		return nil, fmt.Errorf("unsupported batch file type %q, expected .xlsx or .csv", ext)
	}
}

// Parse maps each data row onto the header names. Blank rows are skipped,
// columns with a blank header are ignored and unparseable cells read as 0.
// A header naming the same input twice is rejected.
func Parse(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, errors.New("batch file is empty")
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if header[i] == "" {
			continue
		}
		if first, dup := seen[header[i]]; dup {
			return nil, fmt.Errorf("duplicate column %q in header (columns %d and %d)", header[i], first+1, i+1)
		}
		seen[header[i]] = i
	}
	if len(seen) == 0 {
		return nil, errors.New("batch file header names no inputs")
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if blank(record) {
			continue
		}
		raw := make(map[string]string, len(seen))
		for col, name := range header {
			if name == "" {
				continue
			}
			if col < len(record) {
				raw[name] = record[col]
			} else {
				raw[name] = ""
			}
		}
		rows = append(rows, Row{Line: i + 2, Values: formula.ParseStrings(raw)})
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Processor evaluates parsed rows.
type Processor struct {
	evaluator *formula.Evaluator
	logger    *zap.Logger
}

// NewProcessor creates a Processor. A nil logger disables logging.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{evaluator: formula.NewEvaluator(logger), logger: logger}
}

// Evaluate runs kind over every row in place and returns the outcomes in row order.
func (p *Processor) Evaluate(kind formula.Kind, rows []Row, now time.Time) ([]formula.Outcome, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid calculator kind %v", kind)
	}

	outcomes := make([]formula.Outcome, len(rows))
	saturated := 0
	for i := range rows {
		rows[i].Outcome = p.evaluator.Evaluate(kind, rows[i].Values, now)
		outcomes[i] = rows[i].Outcome
		if rows[i].Outcome.Saturated {
			saturated++
		}
	}

	p.logger.Info("evaluated batch",
		zap.String("op", "batch.Evaluate"),
		zap.String("calculator", kind.Key()),
		zap.Int("rows", len(rows)),
		zap.Int("saturated", saturated),
	)
	return outcomes, nil
}

// EvaluateFile reads path and evaluates every row with kind.
func (p *Processor) EvaluateFile(kind formula.Kind, path string, now time.Time) ([]Row, error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := Parse(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := p.Evaluate(kind, rows, now); err != nil {
		return nil, err
	}
	return rows, nil
}

// Outcomes extracts the outcome of every row.
func Outcomes(rows []Row) []formula.Outcome {
	outcomes := make([]formula.Outcome, len(rows))
	for i, row := range rows {
		outcomes[i] = row.Outcome
	}
	return outcomes
}
