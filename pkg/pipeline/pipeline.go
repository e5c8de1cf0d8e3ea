// Package pipeline runs the grid builder end to end.
//
// A run is a linear sequence of stages with no loops back:
//
//  1. Discover: list image files in the input folder
//  2. Load: decode, downscale and convert every file against the reference
//  3. Geometry: derive columns, rows and canvas size
//  4. Compose: allocate the canvas, draw numbers and paste images
//  5. Save: write the sheet as PNG
//  6. Copy: optionally copy the sources under their grid numbers
//
// Each stage either aborts the run with a structured error (see pkg/errors)
// or degrades by skipping the offending file. Skips are collected into the
// Result so callers can report them at the end.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Config: cfg})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	fmt.Println(result.Output.Path)
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/imagegrid/pkg/config"
	"github.com/matzehuels/imagegrid/pkg/export"
	"github.com/matzehuels/imagegrid/pkg/fonts"
	"github.com/matzehuels/imagegrid/pkg/grid"
	"github.com/matzehuels/imagegrid/pkg/imageset"
)

// ConfirmFunc is asked once before the copy stage with the number of files
// and the destination. Returning false skips the copy.
type ConfirmFunc func(ctx context.Context, count int, dir string) bool

// Options contains everything a run needs.
type Options struct {
	Config config.Config

	// Fonts resolves the label face. Nil builds a chain from the configured
	// font paths and names.
	Fonts fonts.Resolver

	// Decode replaces the default image decoder.
	Decode imageset.DecodeFunc

	// ConfirmCopy gates the copy stage. Nil means proceed.
	ConfirmCopy ConfirmFunc

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// Result contains the outputs of a run. On a fatal error after loading,
// Execute still returns the partial result so skips can be reported.
type Result struct {
	// Project is the sanitized project name used in the output file name.
	Project string

	Reference imageset.Reference
	Entries   []imageset.Entry
	Layout    grid.Layout

	// Font names the face source used for numbers; empty when numbering is off.
	Font     string
	Numbered bool

	// Skips lists every file dropped at any stage, in the order they occurred.
	Skips []imageset.Skip

	Output export.Saved

	// Copy is nil when the copy stage did not run.
	Copy *export.CopyReport

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Discovered int
	Loaded     int
	Composed   int

	LoadTime    time.Duration
	ComposeTime time.Duration
	SaveTime    time.Duration
	CopyTime    time.Duration
}

// Saved reports whether the sheet was written.
func (r *Result) Saved() bool {
	return r != nil && r.Output.Path != ""
}

// SkipsAt returns the skips recorded for one stage.
func (r *Result) SkipsAt(stage string) []imageset.Skip {
	var out []imageset.Skip
	for _, s := range r.Skips {
		if s.Stage == stage {
			out = append(out, s)
		}
	}
	return out
}
