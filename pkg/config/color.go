package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor accepts a CSS color name ("white", "darkslategray"), a hex triplet
// ("#ff8800", "#f80") or "transparent".
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "":
		return nil, fmt.Errorf("empty color")
	case name == ColorTransparent:
		return color.NRGBA{}, nil
	case strings.HasPrefix(name, "#"):
		c, err := colorful.Hex(name)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}
