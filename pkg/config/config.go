// Package config holds the settings of a grid run.
//
// A [Config] is built from [Default], optionally overlaid with a TOML or YAML
// file through [Load], then adjusted by command-line flags and checked with
// [Config.Validate] before it is handed to the pipeline.
package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultInputDir      = "./input_images"
	DefaultOutputDir     = "."
	DefaultRenamedDir    = "./renamed_grid_images"
	DefaultTargetWidth   = 512
	DefaultSpacing       = 25
	DefaultLabelHeight   = 35
	DefaultLabelColor    = "black"
	DefaultFontSize      = 24.0
	DefaultBackground    = "white"
	DefaultCompression   = "default"
	DefaultMaxCanvasArea = 400_000_000

	// ColorNone disables numbering when used as the label color.
	ColorNone = "none"

	// ColorTransparent selects a fully transparent RGBA background.
	ColorTransparent = "transparent"
)

// DefaultExtensions lists the recognized image file extensions.
var DefaultExtensions = []string{".png"}

// DefaultFontPaths are tried in order before system font lookup.
var DefaultFontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
}

// DefaultFontNames are resolved against the system font directories.
var DefaultFontNames = []string{"arial.ttf", "DejaVuSans.ttf", "LiberationSans-Regular.ttf"}

// ValidCompression is the set of accepted PNG compression settings.
var ValidCompression = map[string]bool{
	"default": true,
	"none":    true,
	"fast":    true,
	"best":    true,
}

// =============================================================================
// Config
// =============================================================================

// Config contains every setting of a grid run.
type Config struct {
	InputDir  string `toml:"input_dir" yaml:"input_dir"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`

	// Project overrides the derived project name used in the output file name.
	Project string `toml:"project" yaml:"project"`

	// Extensions are matched case-insensitively against file names.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	// TargetWidth downscales wider images; 0 or "none" keeps original sizes.
	TargetWidth Width `toml:"target_width" yaml:"target_width"`

	Spacing     int     `toml:"spacing" yaml:"spacing"`
	LabelHeight int     `toml:"label_height" yaml:"label_height"`
	LabelColor  string  `toml:"label_color" yaml:"label_color"`
	FontSize    float64 `toml:"font_size" yaml:"font_size"`
	Background  string  `toml:"background" yaml:"background"`

	FontPaths []string `toml:"font_paths" yaml:"font_paths"`
	FontNames []string `toml:"font_names" yaml:"font_names"`

	CopyRename bool   `toml:"copy_rename" yaml:"copy_rename"`
	RenamedDir string `toml:"renamed_dir" yaml:"renamed_dir"`

	Compression   string `toml:"compression" yaml:"compression"`
	MaxCanvasArea int    `toml:"max_canvas_area" yaml:"max_canvas_area"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		InputDir:      DefaultInputDir,
		OutputDir:     DefaultOutputDir,
		Extensions:    append([]string(nil), DefaultExtensions...),
		TargetWidth:   DefaultTargetWidth,
		Spacing:       DefaultSpacing,
		LabelHeight:   DefaultLabelHeight,
		LabelColor:    DefaultLabelColor,
		FontSize:      DefaultFontSize,
		Background:    DefaultBackground,
		FontPaths:     append([]string(nil), DefaultFontPaths...),
		FontNames:     append([]string(nil), DefaultFontNames...),
		CopyRename:    true,
		RenamedDir:    DefaultRenamedDir,
		Compression:   DefaultCompression,
		MaxCanvasArea: DefaultMaxCanvasArea,
	}
}

// NumberingEnabled reports whether sequence numbers are drawn.
func (c *Config) NumberingEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.LabelColor), ColorNone)
}

// TransparentBackground reports whether the background is fully transparent.
func (c *Config) TransparentBackground() bool {
	return strings.EqualFold(strings.TrimSpace(c.Background), ColorTransparent)
}

// WhiteBackground reports whether the background is plain white.
func (c *Config) WhiteBackground() bool {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return false
	}
	r, g, b, a := bg.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff && a == 0xffff
}

// BackgroundColor returns the parsed background.
func (c *Config) BackgroundColor() (color.Color, error) {
	return ParseColor(c.Background)
}

// LabelTextColor returns the parsed label color. It fails when numbering is disabled.
func (c *Config) LabelTextColor() (color.Color, error) {
	if !c.NumberingEnabled() {
		return nil, fmt.Errorf("numbering is disabled")
	}
	return ParseColor(c.LabelColor)
}

// Validate checks the configuration and normalizes extensions to a leading dot
// in lower case. It is safe to call more than once.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return errors.New(errors.ErrCodeConfig, "input folder is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.TargetWidth < 0 {
		return errors.New(errors.ErrCodeConfig, "target width must be >= 0, got %d", c.TargetWidth)
	}
	if c.Spacing < 0 {
		return errors.New(errors.ErrCodeConfig, "spacing must be >= 0, got %d", c.Spacing)
	}
	if c.LabelHeight < 0 {
		return errors.New(errors.ErrCodeConfig, "label height must be >= 0, got %d", c.LabelHeight)
	}
	if c.NumberingEnabled() {
		if c.FontSize <= 0 {
			return errors.New(errors.ErrCodeConfig, "font size must be > 0, got %g", c.FontSize)
		}
		if _, err := ParseColor(c.LabelColor); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "label color")
		}
	}
	if _, err := ParseColor(c.Background); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "background")
	}
	if len(c.Extensions) == 0 {
		return errors.New(errors.ErrCodeConfig, "at least one image extension is required")
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return errors.New(errors.ErrCodeConfig, "empty image extension")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.Compression == "" {
		c.Compression = DefaultCompression
	}
	if !ValidCompression[c.Compression] {
		return errors.New(errors.ErrCodeConfig, "invalid compression: %q (must be one of: default, none, fast, best)", c.Compression)
	}
	if c.MaxCanvasArea <= 0 {
		c.MaxCanvasArea = DefaultMaxCanvasArea
	}
	if c.CopyRename && strings.TrimSpace(c.RenamedDir) == "" {
		return errors.New(errors.ErrCodeConfig, "renamed_dir is required when copy_rename is enabled")
	}
	return nil
}
