package formula

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Values maps input names to numeric values for a single calculation.
type Values map[string]float64

// Get returns the named input, or 0 when it is absent or not a finite number.
func (v Values) Get(name string) float64 {
	value, ok := v[name]
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// GetOr returns the named input, substituting fallback when the input resolves to 0.
func (v Values) GetOr(name string, fallback float64) float64 {
	if value := v.Get(name); value != 0 {
		return value
	}
	return fallback
}

// Clone returns an independent copy of the values.
func (v Values) Clone() Values {
	clone := make(Values, len(v))
	for name, value := range v {
		clone[name] = value
	}
	return clone
}

// Canonical renders the values as a stable, sorted name=value list.
func (v Values) Canonical() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		fmt.Fprintf(&b, "%s=%s", name, strconv.FormatFloat(v.Get(name), 'g', -1, 64))
	}
	return b.String()
}

// ParseValue coerces a loosely typed input into a number. Anything that is
// not a finite number or a numeric string resolves to 0.
func ParseValue(raw any) float64 {
	var value float64
	switch typed := raw.(type) {
	case float64:
		value = typed
	case float32:
		value = float64(typed)
	case int:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case bool:
		if typed {
			value = 1
		}
	case string:
		value = ParseString(typed)
	default:
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// ParseString parses a form-style number, tolerating thousands separators,
// a leading dollar sign and a trailing percent sign.
func ParseString(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// ParseValues converts a decoded JSON object into Values.
func ParseValues(raw map[string]any) Values {
	values := make(Values, len(raw))
	for name, value := range raw {
		values[name] = ParseValue(value)
	}
	return values
}

// ParseStrings converts string inputs, such as query parameters or spreadsheet cells, into Values.
func ParseStrings(raw map[string]string) Values {
	values := make(Values, len(raw))
	for name, value := range raw {
		values[name] = ParseString(value)
	}
	return values
}
