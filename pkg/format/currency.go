// Package format renders calculator values for display using US conventions.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/fincalculate/pkg/mathutil"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
// Values are rounded half away from zero to the cent before formatting.
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return "$0.00"
	}
	rounded := mathutil.Round(amount)
	formatted := formatPositiveCurrency(math.Abs(rounded))
	if rounded < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent returns a percentage with exactly two decimals (e.g., "8.45%").
func Percent(value float64) string {
	if !mathutil.IsFinite(value) {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", mathutil.Round(value))
}

// Number renders a plain count without trailing zeros (e.g., "47" or "2.5").
func Number(value float64) string {
	if !mathutil.IsFinite(value) {
		return "0"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Months renders a month count such as "47 months".
func Months(months int) string {
	return fmt.Sprintf("%d months", months)
}

// Years renders a year count such as "35 years".
func Years(years float64) string {
	return Number(years) + " years"
}

// YearsAndMonths splits a month count into "2 years, 5 months".
func YearsAndMonths(months int) string {
	return fmt.Sprintf("%d years, %d months", months/12, months%12)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
