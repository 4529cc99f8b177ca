// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/fincalculate/pkg/constants"
)

// OutputFormats lists the supported output formats.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatXLSX,
	constants.OutputFormatPDF,
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range OutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %s", strings.Join(OutputFormats, ", "), format)
}

// ValidateCacheBackend checks if the cache backend is one of the supported backends.
func ValidateCacheBackend(backend string) error {
	switch backend {
	case constants.CacheBackendMemory, constants.CacheBackendRedis, constants.CacheBackendNone:
		return nil
	}
	return fmt.Errorf("expected cache backend of %s, %s or %s, got %s",
		constants.CacheBackendMemory, constants.CacheBackendRedis, constants.CacheBackendNone, backend)
}
