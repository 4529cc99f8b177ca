// Package mathutil holds the rounding and percentage helpers shared by the formulas.
package mathutil

import (
	"math"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to whole cents, half away from zero. The decision is
// made on the shortest decimal form of val, so 1.005 becomes 1.01 even though
// its binary value sits just below the midpoint.
func Round(val float64) float64 {
	if !IsFinite(val) {
		return val
	}
	return decimal.NewFromFloat(val).Round(constants.CurrencyDecimalPlaces).InexactFloat64()
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// CalculatePercentage returns value as a percentage of total. A total that is
// not positive yields 0.
func CalculatePercentage(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// PercentToDecimal converts a percentage (6.5) to a rate (0.065).
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
