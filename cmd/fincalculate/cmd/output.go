package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/output"
	"github.com/iwvelando/fincalculate/pkg/validation"
)

// writeOutcomes renders outcomes in format to w.
func writeOutcomes(w io.Writer, format, title string, outcomes []formula.Outcome) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}
	switch format {
	case constants.OutputFormatCSV:
		return output.CsvFormatAll(w, outcomes)
	case constants.OutputFormatXLSX:
		return output.XlsxFormat(w, outcomes)
	case constants.OutputFormatPDF:
		return output.PdfFormat(w, title, outcomes)
	}
	for i, outcome := range outcomes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := output.PrettyFormat(w, outcome); err != nil {
			return err
		}
	}
	return nil
}

// createOutput opens a report file for writing.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeReport runs write against the file at path, or stdout when path is
// empty. Binary formats refuse to write to a terminal. A failed close is
// reported since the file may be truncated.
func writeReport(stdout io.Writer, path, format string, write func(io.Writer) error) (err error) {
	if path == "" {
		if format == constants.OutputFormatXLSX || format == constants.OutputFormatPDF {
			if f, ok := stdout.(*os.File); ok && isTerminal(f) {
				return fmt.Errorf("refusing to write %s to a terminal, use --out", format)
			}
		}
		return write(stdout)
	}

	file, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(file)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
