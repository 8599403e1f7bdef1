// Package utils provides small helpers shared by the handlers and the workspace.
//
// Functions:
//   - SanitizeFilename: Returns a safe filename for storage and Content-Disposition.
//   - GenerateUUID: Returns a new UUID string.
//   - BytesToMB / FormatMB: Size conversions used by the compression headers.
//   - BaseName: Strips directory and extension from an uploaded filename.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	safe := unsafeChars.ReplaceAllString(base, "_")
	safe = strings.TrimLeft(safe, ".")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func GenerateUUID() string {
	return uuid.New().String()
}

// BaseName returns the sanitized filename without its extension.
func BaseName(name string) string {
	safe := SanitizeFilename(name)
	return strings.TrimSuffix(safe, filepath.Ext(safe))
}

func BytesToMB(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

// FormatMB renders a size the way the compression headers expect ("1.25 MB").
func FormatMB(mb float64) string {
	return fmt.Sprintf("%.2f MB", mb)
}
