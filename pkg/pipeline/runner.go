package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/matzehuels/imagegrid/pkg/config"
	"github.com/matzehuels/imagegrid/pkg/export"
	"github.com/matzehuels/imagegrid/pkg/fonts"
	"github.com/matzehuels/imagegrid/pkg/grid"
	"github.com/matzehuels/imagegrid/pkg/imageset"
	"github.com/matzehuels/imagegrid/pkg/observability"
)

// Runner executes grid runs. It holds no per-run state, so one Runner can
// serve several runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs discover → load → geometry → compose → save → copy.
//
// Fatal conditions (missing input folder, no valid images, canvas
// allocation, save failure) return an error. Once loading has produced a
// result it is returned alongside the error so skips can still be reported.
// The copy stage only runs after a successful save.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	cfg.Extensions = append([]string(nil), cfg.Extensions...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	hooks := observability.Pipeline()

	result := &Result{Project: export.Sanitize(cfg.Project)}

	// Stage 1-2: Discover and load
	loadStart := time.Now()
	paths, err := imageset.Discover(cfg.InputDir, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	result.Stats.Discovered = len(paths)
	logger.Info("found images", "count", len(paths), "dir", cfg.InputDir)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := imageset.Load(paths, imageset.Options{
		TargetWidth:           int(cfg.TargetWidth),
		TransparentBackground: cfg.TransparentBackground(),
		WhiteBackground:       cfg.WhiteBackground(),
		Decode:                opts.Decode,
	})
	result.Stats.LoadTime = time.Since(loadStart)
	if set != nil {
		for _, s := range set.Skips {
			logger.Warn("skipped file", "file", s.File, "stage", s.Stage, "reason", s.Reason)
		}
		r.record(ctx, result, set.Skips)
		result.Reference = set.Reference
		result.Entries = set.Entries
	}
	result.Stats.Loaded = len(result.Entries)
	hooks.OnLoadComplete(ctx, len(result.Entries), len(result.Skips), result.Stats.LoadTime)
	if err != nil {
		return result, err
	}
	logger.Info("loaded images",
		"valid", len(result.Entries),
		"skipped", len(result.Skips),
		"reference", result.Reference.Name,
		"cell", sizeString(result.Reference.Size),
		"duration", result.Stats.LoadTime)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 3-4: Geometry and compose
	composeStart := time.Now()
	canvas, err := r.compose(ctx, cfg, opts, logger, result)
	result.Stats.ComposeTime = time.Since(composeStart)
	hooks.OnComposeComplete(ctx, result.Layout.CanvasWidth, result.Layout.CanvasHeight, result.Stats.ComposeTime, err)
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 5: Save
	saveStart := time.Now()
	name := export.GridFileName(result.Project, result.Layout.CanvasWidth, result.Layout.CanvasHeight)
	saved, err := export.SavePNG(canvas, cfg.OutputDir, name, cfg.Compression)
	result.Stats.SaveTime = time.Since(saveStart)
	hooks.OnSaveComplete(ctx, saved.Path, saved.Bytes, result.Stats.SaveTime, err)
	if err != nil {
		return result, err
	}
	result.Output = saved
	logger.Info("saved grid", "path", saved.Path, "bytes", saved.Bytes, "duration", result.Stats.SaveTime)

	// Stage 6: Copy
	if !cfg.CopyRename {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	composed := composedEntries(result.Entries, result.SkipsAt(imageset.StagePaste))
	if opts.ConfirmCopy != nil && !opts.ConfirmCopy(ctx, len(composed), cfg.RenamedDir) {
		logger.Info("copy skipped")
		return result, nil
	}

	copyStart := time.Now()
	report := export.CopyRenamed(composed, cfg.RenamedDir)
	result.Stats.CopyTime = time.Since(copyStart)
	for _, s := range report.Failures {
		logger.Warn("copy failed", "file", s.File, "stage", s.Stage, "reason", s.Reason)
	}
	r.record(ctx, result, report.Failures)
	result.Copy = &report
	hooks.OnCopyComplete(ctx, len(report.Copied), len(report.Failures), result.Stats.CopyTime)
	logger.Info("copied files",
		"dir", cfg.RenamedDir,
		"copied", len(report.Copied),
		"failed", len(report.Failures),
		"duration", result.Stats.CopyTime)

	return result, nil
}

// compose computes the layout, allocates the canvas and fills it.
func (r *Runner) compose(ctx context.Context, cfg config.Config, opts Options, logger *log.Logger, result *Result) (draw.Image, error) {
	labeler, fontName := r.labeler(cfg, opts.Fonts, logger)
	labelHeight := 0
	if labeler != nil {
		labelHeight = cfg.LabelHeight
	}
	result.Font = fontName
	result.Numbered = labeler != nil && labelHeight > 0

	ref := result.Reference
	layout, err := grid.Compute(len(result.Entries), ref.Size.X, ref.Size.Y, labelHeight, cfg.Spacing)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	logger.Info("creating canvas",
		"columns", layout.Columns,
		"rows", layout.Rows,
		"width", layout.CanvasWidth,
		"height", layout.CanvasHeight,
		"mode", ref.Mode)

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	canvas, err := grid.NewCanvas(layout, ref.Mode, bg, cfg.MaxCanvasArea)
	if err != nil {
		return nil, err
	}

	c := &grid.Composer{Layout: layout, Logger: logger}
	if result.Numbered {
		c.Labeler = labeler
	}
	skips := c.Compose(canvas, result.Entries)
	r.record(ctx, result, skips)
	result.Stats.Composed = len(result.Entries) - len(result.SkipsAt(imageset.StagePaste))
	return canvas, nil
}

// labeler resolves the font for numbering. It returns nil when numbering is
// off or no font could be loaded; the latter is logged and not fatal.
func (r *Runner) labeler(cfg config.Config, resolver fonts.Resolver, logger *log.Logger) (*grid.Labeler, string) {
	if !cfg.NumberingEnabled() {
		logger.Debug("numbering disabled by label color")
		return nil, ""
	}
	textColor, err := cfg.LabelTextColor()
	if err != nil {
		logger.Warn("invalid label color, numbering disabled", "err", err)
		return nil, ""
	}
	if resolver == nil {
		resolver = fonts.NewChain(cfg.FontPaths, cfg.FontNames)
	}
	face, name, err := resolver.Resolve(cfg.FontSize)
	if err != nil {
		logger.Warn("no usable font, numbering disabled", "err", err)
		return nil, ""
	}
	logger.Debug("resolved font", "source", name, "size", cfg.FontSize)
	return grid.NewLabeler(face, textColor), name
}

// record appends skips to the result and reports them to the hooks.
func (r *Runner) record(ctx context.Context, result *Result, skips []imageset.Skip) {
	hooks := observability.Pipeline()
	for _, s := range skips {
		result.Skips = append(result.Skips, s)
		hooks.OnFileSkipped(ctx, s.File, s.Stage, s.Reason)
	}
}

// composedEntries drops entries whose paste failed; they are not on the sheet.
func composedEntries(entries []imageset.Entry, pasteSkips []imageset.Skip) []imageset.Entry {
	if len(pasteSkips) == 0 {
		return entries
	}
	failed := make(map[string]bool, len(pasteSkips))
	for _, s := range pasteSkips {
		failed[s.File] = true
	}
	out := make([]imageset.Entry, 0, len(entries))
	for _, e := range entries {
		if !failed[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

func sizeString(p image.Point) string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}
