package cli

import (
	"path/filepath"

	"github.com/matzehuels/imagegrid/pkg/export"
)

// deriveProjectName picks the project name for the output file: the working
// directory's name, else the input folder's name, else a fixed fallback. The
// result is not yet sanitized.
func deriveProjectName(wd, inputDir string) string {
	for _, dir := range []string{wd, inputDir} {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		base := filepath.Base(dir)
		if base != "." && base != string(filepath.Separator) && base != "" {
			return base
		}
	}
	return export.FallbackName
}
