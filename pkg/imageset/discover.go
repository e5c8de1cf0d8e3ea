package imageset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// Discover lists the regular files in dir whose names end, case-insensitively,
// in one of exts. Paths are returned sorted by file name.
func Discover(dir string, exts []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "input folder %q not found", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeConfig, "input path %q is not a folder", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "read input folder %q", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			// Follow symlinks to regular files the way a stat-based check would.
			if e.Type()&os.ModeSymlink == 0 {
				continue
			}
			fi, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		if hasExtension(e.Name(), exts) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeNoValidImages, "no %s files found in %q", strings.Join(exts, "/"), dir)
	}

	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
