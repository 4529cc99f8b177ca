package cmd

import (
	"io"
	"time"

	"github.com/iwvelando/fincalculate/internal/batch"
	"github.com/spf13/cobra"
)

var (
	batchFormat string
	batchOut    string
)

var batchCmd = &cobra.Command{
	Use:   "batch <calculator> <file>",
	Short: "Evaluate a spreadsheet of inputs",
	Long: `Evaluates a calculator once per data row of an .xlsx or .csv file. The
header row names the inputs; unnamed columns and blank rows are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: pretty, csv, xlsx, pdf")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write to this file instead of stdout")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	calc, err := lookupCalculator(app.catalog, args[0])
	if err != nil {
		return err
	}

	rows, err := batch.NewProcessor(app.logger).EvaluateFile(calc.Kind, args[1], time.Now())
	if err != nil {
		return err
	}
	for _, row := range rows {
		logInputWarnings(calc, row.Values)
	}

	format := resolveOutputFormat(batchFormat)
	return writeReport(cmd.OutOrStdout(), batchOut, format, func(w io.Writer) error {
		return writeOutcomes(w, format, calc.Title, batch.Outcomes(rows))
	})
}
