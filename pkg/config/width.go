package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WidthNone disables resizing when used as the target width.
const WidthNone = "none"

// Width is a pixel width that also accepts "none", meaning 0 (keep original
// sizes). It decodes from TOML, YAML and command-line flags.
type Width int

// String implements pflag.Value.
func (w Width) String() string {
	return strconv.Itoa(int(w))
}

// Set implements pflag.Value.
func (w *Width) Set(s string) error {
	v, err := parseWidth(s)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// Type implements pflag.Value.
func (w *Width) Type() string {
	return "width"
}

// UnmarshalTOML implements toml.Unmarshaler.
func (w *Width) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		*w = Width(v)
		return nil
	case string:
		return w.Set(v)
	default:
		return fmt.Errorf("width must be an integer or %q, got %T", WidthNone, v)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (w *Width) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: width must be an integer or %q", node.Line, WidthNone)
	}
	if err := w.Set(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func parseWidth(s string) (Width, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, WidthNone) {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid width %q: must be an integer or %q", s, WidthNone)
	}
	return Width(n), nil
}
