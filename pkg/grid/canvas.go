package grid

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/matzehuels/imagegrid/pkg/errors"
	"github.com/matzehuels/imagegrid/pkg/imageset"
)

// NewCanvas allocates the sheet in the given mode and fills it with bg. RGB
// sheets are *image.RGBA; RGBA sheets are *image.NRGBA so translucent pixels
// keep their stored color. maxArea caps the pixel count; 0 means no cap. Any
// failure is a CANVAS_ALLOCATION error.
func NewCanvas(l Layout, mode imageset.Mode, bg color.Color, maxArea int) (canvas draw.Image, err error) {
	w, h := l.CanvasWidth, l.CanvasHeight
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeCanvasAllocation, "invalid canvas size %dx%d", w, h)
	}
	if maxArea > 0 && int64(w)*int64(h) > int64(maxArea) {
		return nil, errors.New(errors.ErrCodeCanvasAllocation,
			"canvas %dx%d exceeds the limit of %d pixels", w, h, maxArea)
	}

	defer func() {
		if r := recover(); r != nil {
			canvas = nil
			err = errors.Wrap(errors.ErrCodeCanvasAllocation, fmt.Errorf("%v", r), "allocate canvas %dx%d", w, h)
		}
	}()

	rect := image.Rect(0, 0, w, h)
	switch mode {
	case imageset.ModeRGBA:
		m := image.NewNRGBA(rect)
		if bg != nil {
			fillNRGBA(m, color.NRGBAModel.Convert(bg).(color.NRGBA))
		}
		return m, nil
	case imageset.ModeRGB:
		m := image.NewRGBA(rect)
		if bg != nil {
			if _, _, _, a := bg.RGBA(); a != 0 {
				draw.Draw(m, m.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
			}
		}
		return m, nil
	default:
		return nil, errors.New(errors.ErrCodeCanvasAllocation, "unsupported canvas mode %s", mode)
	}
}

func fillNRGBA(m *image.NRGBA, c color.NRGBA) {
	if c == (color.NRGBA{}) {
		return
	}
	px := []uint8{c.R, c.G, c.B, c.A}
	for i := 0; i < len(m.Pix); i += 4 {
		copy(m.Pix[i:i+4], px)
	}
}
