// Package fonts resolves the typeface used for cell numbers.
//
// Font availability depends on the host, so resolution walks an ordered
// [Chain] of [Source]s: explicit font files, fonts located in the system font
// directories, the embedded Go Regular typeface and finally the built-in 7x13
// bitmap face. A chain that is exhausted returns [ErrNoFont]; callers treat that
// as "numbering disabled".
package fonts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrNoFont is returned when no source could provide a face.
var ErrNoFont = errors.New("no usable font found")

// Resolver returns a face at the requested point size together with a short
// description of where it came from.
type Resolver interface {
	Resolve(size float64) (font.Face, string, error)
}

// Source is one candidate in a resolution chain.
type Source interface {
	Name() string
	Load(size float64) (font.Face, error)
}

// Chain tries each source in order and returns the first face that loads.
type Chain struct {
	Sources []Source
}

// NewChain builds the standard resolution order: the given font files, then
// the given font names searched in system font directories, then the embedded
// and built-in fallbacks.
func NewChain(paths, names []string) *Chain {
	var sources []Source
	for _, p := range paths {
		sources = append(sources, FileSource{Path: p})
	}
	for _, n := range names {
		sources = append(sources, SystemSource{FileName: n})
	}
	sources = append(sources, EmbeddedSource{}, BasicSource{})
	return &Chain{Sources: sources}
}

// Resolve implements Resolver.
func (c *Chain) Resolve(size float64) (font.Face, string, error) {
	var tried []string
	for _, src := range c.Sources {
		face, err := src.Load(size)
		if err == nil && face != nil {
			return face, src.Name(), nil
		}
		tried = append(tried, src.Name())
	}
	if len(tried) == 0 {
		return nil, "", ErrNoFont
	}
	return nil, "", fmt.Errorf("%w (tried %s)", ErrNoFont, strings.Join(tried, ", "))
}

// FileSource loads a TrueType file from an explicit path.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Load(size float64) (font.Face, error) {
	return gg.LoadFontFace(s.Path, size)
}

// SystemSource locates a font file by name in the platform font directories.
type SystemSource struct {
	FileName string
}

func (s SystemSource) Name() string { return "system:" + s.FileName }

func (s SystemSource) Load(size float64) (font.Face, error) {
	path, err := findfont.Find(s.FileName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

// EmbeddedSource provides the Go Regular typeface compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded:goregular" }

func (EmbeddedSource) Load(size float64) (font.Face, error) {
	return parseFace(goregular.TTF, size)
}

// BasicSource is the fixed-size bitmap face. It ignores the requested size.
type BasicSource struct{}

func (BasicSource) Name() string { return "builtin:basic7x13" }

func (BasicSource) Load(float64) (font.Face, error) {
	return basicfont.Face7x13, nil
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
