package common

import (
	"fmt"
	"slices"
	"strings"
)

// NormalizeOutputFormat trims and lower-cases format and checks it against the
// configured formats. An empty supported list allows any format.
func NormalizeOutputFormat(format string, supportedFormats []string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))

	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, normalized) {
		return normalized, nil
	}

	return "", fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}
