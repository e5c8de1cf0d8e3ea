package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/imagegrid/pkg/imageset"
	"github.com/matzehuels/imagegrid/pkg/observability"
	"github.com/matzehuels/imagegrid/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func successLine(format string, args ...any) string {
	return styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...)
}

func errorLine(format string, args ...any) string {
	return styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...)
}

func warningLine(format string, args ...any) string {
	return styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...))
}

func fileLine(path string) string {
	return "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path)
}

func keyValueLine(key, value string) string {
	return styleKey.Render(key) + " " + StyleValue.Render(value)
}

// =============================================================================
// Run Summary
// =============================================================================

// renderSummary formats the end-of-run report: output file, grid facts,
// copy counts, stage timings and a table of skipped files. timings may be nil.
func renderSummary(r *pipeline.Result, timings *observability.Timings) string {
	var lines []string

	if r.Saved() {
		lines = append(lines, successLine("%s", StyleTitle.Render("Grid saved")), fileLine(r.Output.Path))
	} else {
		lines = append(lines, errorLine("Grid not saved"))
	}

	images := fmt.Sprintf("%d of %d", len(r.Entries), r.Stats.Discovered)
	if n := len(r.Skips); n > 0 {
		images += fmt.Sprintf(" (%d skipped)", n)
	}
	lines = append(lines, keyValueLine("Images", images))

	if l := r.Layout; l.Columns > 0 {
		lines = append(lines,
			keyValueLine("Grid", fmt.Sprintf("%d × %d cells of %d×%d px", l.Columns, l.Rows, l.CellWidth, l.CellHeight)),
			keyValueLine("Canvas", fmt.Sprintf("%d × %d px (%s pixels, %s)",
				l.CanvasWidth, l.CanvasHeight, humanize.Comma(int64(l.CanvasWidth)*int64(l.CanvasHeight)), r.Reference.Mode)),
		)
		numbers := "off"
		if r.Numbered {
			numbers = r.Font
		}
		lines = append(lines, keyValueLine("Numbers", numbers))
	}
	if r.Saved() {
		lines = append(lines, keyValueLine("File size", humanize.Bytes(uint64(r.Output.Bytes))))
	}
	if r.Copy != nil {
		copied := fmt.Sprintf("%d files %s %s", len(r.Copy.Copied), iconArrow, r.Copy.Dir)
		if r.Copy.Failed() {
			copied += fmt.Sprintf(" (%d failed)", len(r.Copy.Failures))
		}
		lines = append(lines, keyValueLine("Copied", copied))
	}
	if timings != nil {
		if stages := timings.Stages(); len(stages) > 0 {
			lines = append(lines, keyValueLine("Timing", formatTimings(stages, timings.Total())))
		}
	}

	if len(r.Skips) > 0 {
		noun := "files"
		if len(r.Skips) == 1 {
			noun = "file"
		}
		lines = append(lines, "", warningLine("%d %s skipped", len(r.Skips), noun), skipTable(r.Skips))
	}

	return strings.Join(lines, "\n")
}

// formatTimings renders stage durations and their total on one line.
func formatTimings(stages []observability.Timing, total time.Duration) string {
	parts := make([]string, len(stages), len(stages)+1)
	for i, s := range stages {
		parts[i] = fmt.Sprintf("%s %s", s.Stage, s.Duration.Round(time.Millisecond))
	}
	parts = append(parts, fmt.Sprintf("total %s", total.Round(time.Millisecond)))
	return strings.Join(parts, StyleDim.Render(" · "))
}

// skipTable renders skipped files with the stage and reason.
func skipTable(skips []imageset.Skip) string {
	rows := make([][]string, len(skips))
	for i, s := range skips {
		rows[i] = []string{s.File, s.Stage, s.Reason}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Stage", "Reason").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader.Padding(0, 1)
			}
			if col == 1 {
				return styleTableCell.Foreground(colorYellow)
			}
			return styleTableCell
		})
	return t.Render()
}
