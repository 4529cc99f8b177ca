package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/formula"
	"github.com/iwvelando/fincalculate/pkg/loans"
	"github.com/iwvelando/fincalculate/pkg/output"
	"github.com/iwvelando/fincalculate/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	calcSet      []string
	calcExample  bool
	calcSchedule bool
	calcFormat   string
	calcOut      string
)

var calcCmd = &cobra.Command{
	Use:   "calc <calculator>",
	Short: "Evaluate one calculator",
	Long: `Evaluates a calculator with inputs given as --set name=value.

Unset inputs fall back to the calculator defaults. Values accept currency
symbols, thousands separators and a trailing percent sign.

Example:
  fincalculate calc mortgage-calculator --set homePrice=400000 --set downPayment=80000`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringArrayVar(&calcSet, "set", nil, "input as name=value (repeatable)")
	calcCmd.Flags().BoolVar(&calcExample, "example", false, "start from the worked example inputs")
	calcCmd.Flags().BoolVar(&calcSchedule, "schedule", false, "print the amortization schedule of a loan calculator")
	calcCmd.Flags().StringVar(&calcFormat, "format", "", "output format: pretty, csv, xlsx, pdf")
	calcCmd.Flags().StringVar(&calcOut, "out", "", "write to this file instead of stdout")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	calc, err := lookupCalculator(app.catalog, args[0])
	if err != nil {
		return err
	}

	values := formula.Values{}
	if calcExample {
		values = calc.ExampleValues()
	}
	assigned, err := parseAssignments(calcSet)
	if err != nil {
		return err
	}
	for name, value := range assigned {
		values[name] = value
	}
	logInputWarnings(calc, values)

	format := resolveOutputFormat(calcFormat)
	return writeReport(cmd.OutOrStdout(), calcOut, format, func(w io.Writer) error {
		if calcSchedule {
			return writeSchedule(w, calc.Kind, values, format)
		}
		outcome := formula.NewEvaluator(app.logger).Evaluate(calc.Kind, values, time.Now())
		return writeOutcomes(w, format, calc.Title, []formula.Outcome{outcome})
	})
}

// lookupCalculator resolves a calculator by key. The "-calculator" suffix may be omitted.
func lookupCalculator(cat *catalog.Catalog, key string) (*catalog.Calculator, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if calc, ok := cat.CalculatorByKey(key); ok {
		return calc, nil
	}
	if calc, ok := cat.CalculatorByKey(key + "-calculator"); ok {
		return calc, nil
	}
	return nil, fmt.Errorf("unknown calculator %q, run 'fincalculate routes' to list them", key)
}

// parseAssignments turns name=value pairs into Values.
func parseAssignments(pairs []string) (formula.Values, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		raw[name] = value
	}
	return formula.ParseStrings(raw), nil
}

func logInputWarnings(calc *catalog.Calculator, values formula.Values) {
	bounds := calc.InputBounds()
	for _, warning := range validation.CheckInputs(bounds, values) {
		app.logger.Warn(warning,
			zap.String("op", "cmd.calc"),
			zap.String("calculator", calc.Kind.Key()),
		)
	}
	unknown := validation.UnknownInputs(bounds, values)
	sort.Strings(unknown)
	for _, name := range unknown {
		app.logger.Warn("ignoring unknown input "+name,
			zap.String("op", "cmd.calc"),
			zap.String("calculator", calc.Kind.Key()),
		)
	}
}

func writeSchedule(w io.Writer, kind formula.Kind, values formula.Values, format string) error {
	principal, rate, term, ok := formula.LoanTerms(kind, values)
	if !ok {
		return fmt.Errorf("%s does not amortize", kind.Key())
	}
	schedule, err := loans.NewAmortizationScheduleGenerator(app.logger).GenerateSchedule(principal, rate, term)
	if err != nil {
		return err
	}
	switch format {
	case constants.OutputFormatPretty:
		return output.PrettySchedule(w, schedule)
	case constants.OutputFormatCSV:
		return output.CsvSchedule(w, schedule)
	}
	return fmt.Errorf("schedules support the %s and %s formats, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, format)
}
