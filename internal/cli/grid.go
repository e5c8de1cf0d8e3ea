package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagegrid/pkg/config"
	"github.com/matzehuels/imagegrid/pkg/observability"
	"github.com/matzehuels/imagegrid/pkg/pipeline"
)

// gridOpts holds the command-line flags. Flags only override the
// configuration when they were set explicitly.
type gridOpts struct {
	configPath  string       // TOML or YAML configuration file
	input       string       // folder with the source images
	output      string       // folder for the finished sheet
	project     string       // project name used in the output file name
	width       config.Width // downscale wider images to this width ("none" or 0 keeps sizes)
	spacing     int          // gap around and between cells
	labelHeight int          // height of the number band above each image
	labelColor  string       // number color, or "none" to disable numbering
	fontSize    float64      // number font size in points
	background  string       // canvas color, or "transparent"
	copyRename  bool         // copy sources as 1.png, 2.png, ...
	renamedDir  string       // destination for renamed copies
	yes         bool         // never prompt; accept defaults
}

// gridCommand creates the command that builds a contact sheet.
func (c *CLI) gridCommand() *cobra.Command {
	def := config.Default()
	opts := gridOpts{
		input:       def.InputDir,
		output:      def.OutputDir,
		width:       def.TargetWidth,
		spacing:     def.Spacing,
		labelHeight: def.LabelHeight,
		labelColor:  def.LabelColor,
		fontSize:    def.FontSize,
		background:  def.Background,
		copyRename:  def.CopyRename,
		renamedDir:  def.RenamedDir,
	}

	cmd := &cobra.Command{
		Use:   appName + " [input-dir]",
		Short: "Arrange a folder of images into a numbered grid",
		Long: `imagegrid loads every image in a folder, scales them to a common width,
and lays them out as a numbered contact sheet saved as one PNG. The source
files can optionally be copied alongside as 1.png, 2.png, ... to match the
numbers on the sheet.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return c.runGrid(cmd.Context(), cfg, opts.yes)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "configuration file (.toml, .yaml); defaults to ./"+config.DefaultFileName+" when present")
	f.StringVarP(&opts.input, "input", "i", opts.input, "folder containing the images")
	f.StringVarP(&opts.output, "output", "o", opts.output, "folder for the grid image")
	f.StringVar(&opts.project, "project", "", "project name for the output file (default: current folder name)")
	f.Var(&opts.width, "width", `downscale wider images to this width ("none" or 0 keeps original sizes)`)
	f.IntVar(&opts.spacing, "spacing", opts.spacing, "spacing around and between cells in pixels")
	f.IntVar(&opts.labelHeight, "label-height", opts.labelHeight, "height of the number band above each image")
	f.StringVar(&opts.labelColor, "label-color", opts.labelColor, `number color (name or #hex), "none" disables numbering`)
	f.Float64Var(&opts.fontSize, "font-size", opts.fontSize, "number font size in points")
	f.StringVar(&opts.background, "background", opts.background, `canvas color (name or #hex) or "transparent"`)
	f.BoolVar(&opts.copyRename, "copy", opts.copyRename, "copy the source files renamed to their grid numbers")
	f.StringVar(&opts.renamedDir, "renamed-dir", opts.renamedDir, "folder for the renamed copies")
	f.BoolVarP(&opts.yes, "yes", "y", false, "do not prompt; use flags, config and defaults")

	return cmd
}

// resolveConfig merges defaults, the config file, explicit flags, the
// positional input folder and interactive answers, in that order.
func (c *CLI) resolveConfig(cmd *cobra.Command, opts gridOpts, args []string) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("input") {
		cfg.InputDir = opts.input
	}
	if f.Changed("output") {
		cfg.OutputDir = opts.output
	}
	if f.Changed("project") {
		cfg.Project = opts.project
	}
	if f.Changed("width") {
		cfg.TargetWidth = opts.width
	}
	if f.Changed("spacing") {
		cfg.Spacing = opts.spacing
	}
	if f.Changed("label-height") {
		cfg.LabelHeight = opts.labelHeight
	}
	if f.Changed("label-color") {
		cfg.LabelColor = opts.labelColor
	}
	if f.Changed("font-size") {
		cfg.FontSize = opts.fontSize
	}
	if f.Changed("background") {
		cfg.Background = opts.background
	}
	if f.Changed("copy") {
		cfg.CopyRename = opts.copyRename
	}
	if f.Changed("renamed-dir") {
		cfg.RenamedDir = opts.renamedDir
	}

	inputGiven := f.Changed("input")
	if len(args) == 1 {
		cfg.InputDir = args[0]
		inputGiven = true
	}

	if p := c.prompterFor(opts.yes); p != nil {
		if !inputGiven {
			if cfg.InputDir, err = p.Text("Input folder", cfg.InputDir); err != nil {
				return cfg, err
			}
		}
		if !f.Changed("output") {
			if cfg.OutputDir, err = p.Text("Output folder", cfg.OutputDir); err != nil {
				return cfg, err
			}
		}
	}

	if cfg.Project == "" {
		wd, _ := os.Getwd()
		cfg.Project = deriveProjectName(wd, cfg.InputDir)
	}
	return cfg, nil
}

// runGrid executes the pipeline and prints the summary.
func (c *CLI) runGrid(ctx context.Context, cfg config.Config, yes bool) error {
	logger := loggerFromContext(ctx)

	timings := &observability.Timings{}
	observability.SetPipelineHooks(timings)
	defer observability.Reset()

	var confirm pipeline.ConfirmFunc
	if p := c.prompterFor(yes); p != nil {
		confirm = func(_ context.Context, n int, dir string) bool {
			ok, err := p.Confirm(fmt.Sprintf("Copy and rename %d files to %s?", n, dir), true)
			if err != nil {
				logger.Warn("copy confirmation failed", "err", err)
				return false
			}
			return ok
		}
	}

	prog := newProgress(logger)
	result, err := pipeline.NewRunner(logger).Execute(ctx, pipeline.Options{
		Config:      cfg,
		ConfirmCopy: confirm,
	})
	if result != nil {
		fmt.Fprintln(c.out, renderSummary(result, timings))
	}
	logger.Debug("run finished", "skip_events", timings.Skipped(), "total", timings.Total())
	if err != nil {
		return userError{err}
	}
	prog.done(fmt.Sprintf("Built grid of %d images", result.Stats.Composed))
	return nil
}
