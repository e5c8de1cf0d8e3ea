// Package cli implements the imagegrid command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imagegrid/pkg/buildinfo"
	"github.com/matzehuels/imagegrid/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "imagegrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger

	// out receives the end-of-run summary.
	out io.Writer

	// prompt replaces terminal prompting when set.
	prompt prompter
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. The root command builds the
// grid; there are no subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.gridCommand()
	root.Version = buildinfo.Resolved()
	root.SetVersionTemplate(buildinfo.Template())
	return root
}

// prompterFor returns the prompter for this run, or nil when prompting is
// off because of --yes or a non-interactive stdin.
func (c *CLI) prompterFor(yes bool) prompter {
	if yes {
		return nil
	}
	if c.prompt != nil {
		return c.prompt
	}
	if !isInteractive(os.Stdin) {
		return nil
	}
	return teaPrompter{in: os.Stdin, out: os.Stderr}
}

// userError prints a coded error without its code prefix. The original error
// stays reachable through Unwrap, so codes and context.Canceled still match.
type userError struct{ err error }

func (e userError) Error() string { return errors.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }
