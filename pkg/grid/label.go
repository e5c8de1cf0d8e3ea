package grid

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Labeler draws cell numbers with one face and color.
type Labeler struct {
	Face  font.Face
	Color color.Color
}

// NewLabeler returns a labeler for the given face and text color.
func NewLabeler(face font.Face, c color.Color) *Labeler {
	return &Labeler{Face: face, Color: c}
}

// Origin returns the baseline origin that centers the ink of text inside
// band. The glyph bounding box is measured relative to the baseline, so its
// offsets are subtracted to center what is actually drawn rather than the
// advance box.
func (lb *Labeler) Origin(text string, band image.Rectangle) image.Point {
	bounds, _ := font.BoundString(lb.Face, text)
	w := bounds.Max.X - bounds.Min.X
	h := bounds.Max.Y - bounds.Min.Y

	x := fixed.I(band.Min.X) + (fixed.I(band.Dx())-w)/2 - bounds.Min.X
	y := fixed.I(band.Min.Y) + (fixed.I(band.Dy())-h)/2 - bounds.Min.Y
	return image.Pt(x.Floor(), y.Floor())
}

// Draw renders text centered in band on dst.
func (lb *Labeler) Draw(dst draw.Image, text string, band image.Rectangle) (err error) {
	if lb.Face == nil {
		return fmt.Errorf("no font face")
	}
	if dst == nil {
		return fmt.Errorf("no canvas")
	}
	if text == "" {
		return fmt.Errorf("empty label")
	}
	if band.Empty() {
		return fmt.Errorf("empty label band %v", band)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw label %q: %v", text, r)
		}
	}()

	o := lb.Origin(text, band)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(lb.Color),
		Face: lb.Face,
		Dot:  fixed.P(o.X, o.Y),
	}
	d.DrawString(text)
	return nil
}
