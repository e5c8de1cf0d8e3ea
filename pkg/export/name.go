// Package export writes the finished sheet to disk and copies the source
// files under their grid numbers.
package export

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackName is used when a project name sanitizes to nothing.
const FallbackName = "grid_project"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Sanitize turns a project name into a filename-safe token: spaces become
// hyphens, anything outside [A-Za-z0-9_-] is dropped, and the result is
// lowercased. Sanitize is idempotent.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		return FallbackName
	}
	return strings.ToLower(name)
}

// GridFileName returns "<project>_grid_<W>x<H>.png" for the sanitized project.
func GridFileName(project string, width, height int) string {
	return fmt.Sprintf("%s_grid_%dx%d.png", Sanitize(project), width, height)
}
