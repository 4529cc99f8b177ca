package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/fincalculate/pkg/constants"
)

// ParseSize converts a byte count with an optional K, M or G suffix into bytes.
// An empty string yields the default request body limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodyBytes, nil
	}

	idx := len(trimmed)
	for idx > 0 && !unicode.IsDigit(rune(trimmed[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(trimmed[:idx]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var shift uint
	switch unit := strings.TrimSpace(trimmed[idx:]); unit {
	case "", "B":
	case "K", "KB":
		shift = 10
	case "M", "MB":
		shift = 20
	case "G", "GB":
		shift = 30
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	if n < 0 || n > (1<<62)>>shift {
		return 0, fmt.Errorf("size out of range: %s", value)
	}
	return n << shift, nil
}
