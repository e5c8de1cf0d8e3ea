package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Prompt styles
var (
	promptLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	promptInputStyle = lipgloss.NewStyle().Foreground(colorWhite)
	promptDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// errPromptCanceled is returned when the user aborts a prompt.
var errPromptCanceled = errors.New("prompt canceled")

// prompter asks the user for values.
type prompter interface {
	Text(label, def string) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// isInteractive reports whether f is a terminal.
func isInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// teaPrompter runs one bubbletea program per question.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p teaPrompter) Text(label, def string) (string, error) {
	final, err := tea.NewProgram(NewTextInputModel(label, def), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(TextInputModel)
	if !ok || m.Canceled {
		return "", errPromptCanceled
	}
	return m.Result(), nil
}

func (p teaPrompter) Confirm(label string, def bool) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(label, def), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ConfirmModel)
	if !ok || m.Canceled {
		return false, errPromptCanceled
	}
	return m.Result(), nil
}

// =============================================================================
// TextInputModel - Single-line input with a default
// =============================================================================

// TextInputModel is the bubbletea model for a folder prompt. An empty answer
// selects the default.
type TextInputModel struct {
	Label    string
	Default  string
	Value    string
	Done     bool
	Canceled bool
}

// NewTextInputModel creates a new text input model.
func NewTextInputModel(label, def string) TextInputModel {
	return TextInputModel{Label: label, Default: def}
}

func (m TextInputModel) Init() tea.Cmd {
	return nil
}

func (m TextInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Canceled = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.Done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if r := []rune(m.Value); len(r) > 0 {
			m.Value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Value += " "
	case tea.KeyRunes:
		m.Value += string(key.Runes)
	}
	return m, nil
}

// Result returns the typed value, or the default when nothing was typed.
func (m TextInputModel) Result() string {
	if v := strings.TrimSpace(m.Value); v != "" {
		return v
	}
	return m.Default
}

func (m TextInputModel) View() string {
	var b strings.Builder
	b.WriteString(promptLabelStyle.Render(m.Label))
	if m.Default != "" {
		b.WriteString(promptDimStyle.Render(" [" + m.Default + "]"))
	}
	b.WriteString(": ")
	b.WriteString(promptInputStyle.Render(m.Value))
	if m.Done || m.Canceled {
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(promptDimStyle.Render("▏"))
	return b.String()
}

// =============================================================================
// ConfirmModel - Yes/no question
// =============================================================================

// ConfirmModel is the bubbletea model for a yes/no question. Enter accepts
// the default.
type ConfirmModel struct {
	Label    string
	Default  bool
	Answer   *bool
	Canceled bool
}

// NewConfirmModel creates a new confirm model.
func NewConfirmModel(label string, def bool) ConfirmModel {
	return ConfirmModel{Label: label, Default: def}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.Canceled = true
		return m, tea.Quit
	case "y", "Y":
		yes := true
		m.Answer = &yes
		return m, tea.Quit
	case "n", "N":
		no := false
		m.Answer = &no
		return m, tea.Quit
	case "enter":
		def := m.Default
		m.Answer = &def
		return m, tea.Quit
	}
	return m, nil
}

// Result returns the answer, or the default when none was given.
func (m ConfirmModel) Result() bool {
	if m.Answer == nil {
		return m.Default
	}
	return *m.Answer
}

func (m ConfirmModel) View() string {
	hint := "y/N"
	if m.Default {
		hint = "Y/n"
	}
	s := promptLabelStyle.Render(m.Label) + " " + promptDimStyle.Render("("+hint+")") + " "
	if m.Answer != nil {
		if *m.Answer {
			return s + promptInputStyle.Render("yes") + "\n"
		}
		return s + promptInputStyle.Render("no") + "\n"
	}
	if m.Canceled {
		return s + "\n"
	}
	return s
}
