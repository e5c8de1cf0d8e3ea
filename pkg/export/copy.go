package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/imagegrid/pkg/imageset"
)

// CopyReport summarizes one copy-and-rename pass.
type CopyReport struct {
	Dir      string
	Copied   []string
	Failures []imageset.Skip
}

// Failed reports whether any copy failed.
func (r CopyReport) Failed() bool { return len(r.Failures) > 0 }

// TargetName returns the renamed file name for an entry: its 1-based grid
// number plus the source extension, or ".png" when the source has none.
func TargetName(e imageset.Entry) string {
	ext := filepath.Ext(e.Name)
	if ext == "" {
		ext = ".png"
	}
	return strconv.Itoa(e.Index+1) + ext
}

// CopyRenamed copies each entry's source file into destDir under its grid
// number, keeping permission bits and modification time. A failing file is
// recorded and the rest continue. If destDir cannot be created every entry
// is recorded as failed.
func CopyRenamed(entries []imageset.Entry, destDir string) CopyReport {
	report := CopyReport{Dir: destDir}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		for _, e := range entries {
			report.Failures = append(report.Failures, copySkip(e, fmt.Errorf("create %s: %w", destDir, err)))
		}
		return report
	}

	for _, e := range entries {
		dst := filepath.Join(destDir, TargetName(e))
		if err := copyFile(e.Path, dst); err != nil {
			report.Failures = append(report.Failures, copySkip(e, err))
			continue
		}
		report.Copied = append(report.Copied, dst)
	}
	return report
}

func copySkip(e imageset.Entry, err error) imageset.Skip {
	return imageset.Skip{File: e.Name, Stage: imageset.StageCopy, Reason: err.Error()}
}

// copyFile streams src to dst and then applies the source mode and mtime.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source not found: %s", src)
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
