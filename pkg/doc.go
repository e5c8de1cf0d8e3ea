// Package pkg provides the libraries behind imagegrid.
//
// # Overview
//
// imagegrid turns a folder of images into one numbered contact sheet. The
// pkg directory is organized by stage:
//
//  1. [imageset] - Discovery, decoding, downscaling and mode normalization
//  2. [grid] - Sheet geometry, canvas allocation, numbering and pasting
//  3. [export] - Output naming, PNG encoding and renamed copies
//  4. [pipeline] - Orchestration (discover → load → compose → save → copy)
//
// Supporting packages:
//
//   - [config] - Run configuration, TOML/YAML loading and color parsing
//   - [fonts] - Font resolution with file, system, embedded and bitmap fallbacks
//   - [errors] - Structured error codes shared by every stage
//   - [observability] - Optional stage hooks for metrics and timing
//   - [buildinfo] - Version information injected at build time
//
// # Data Flow
//
//	input folder
//	     ↓
//	[imageset] Discover + Load (reference image fixes cell size and mode)
//	     ↓
//	[grid] Compute layout → NewCanvas → Compose
//	     ↓
//	[export] SavePNG → CopyRenamed
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.InputDir = "./photos"
//	result, err := pipeline.NewRunner(nil).Execute(ctx, pipeline.Options{Config: cfg})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	fmt.Println(result.Output.Path)
package pkg
