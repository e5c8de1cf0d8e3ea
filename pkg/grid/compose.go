package grid

import (
	"fmt"
	"image"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/matzehuels/imagegrid/pkg/imageset"
)

// Composer places entries on a canvas according to a layout.
type Composer struct {
	Layout Layout

	// Labeler draws 1-based numbers in each label band; nil disables numbering.
	Labeler *Labeler

	Logger *log.Logger
}

// Compose draws every entry onto canvas. A label or paste failure is logged,
// recorded as a skip, and does not stop the remaining cells.
func (c *Composer) Compose(canvas draw.Image, entries []imageset.Entry) []imageset.Skip {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	numbered := c.Labeler != nil && c.Layout.LabelHeight > 0

	var skips []imageset.Skip
	for _, e := range entries {
		if numbered {
			text := strconv.Itoa(e.Index + 1)
			if err := c.Labeler.Draw(canvas, text, c.Layout.LabelRect(e.Index)); err != nil {
				logger.Warn("label failed", "file", e.Name, "number", text, "err", err)
				skips = append(skips, imageset.Skip{File: e.Name, Stage: imageset.StageLabel, Reason: err.Error()})
			}
		}
		if err := Paste(canvas, c.Layout, e.Index, e.Image); err != nil {
			logger.Warn("paste failed", "file", e.Name, "number", e.Index+1, "err", err)
			skips = append(skips, imageset.Skip{File: e.Name, Stage: imageset.StagePaste, Reason: err.Error()})
		}
	}
	return skips
}

// Paste copies img into the image area of the i-th cell, centered, replacing
// the pixels underneath. Whatever falls outside the cell is clipped.
func Paste(canvas draw.Image, l Layout, i int, img image.Image) (err error) {
	if canvas == nil {
		return fmt.Errorf("nil canvas")
	}
	if img == nil {
		return fmt.Errorf("nil image")
	}
	if i < 0 || i >= l.Columns*l.Rows {
		return fmt.Errorf("cell %d outside %dx%d grid", i, l.Columns, l.Rows)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("paste into cell %d: %v", i, r)
		}
	}()

	b := img.Bounds()
	dst := l.PasteRect(i, b.Size())
	clip := dst.Intersect(l.ImageRect(i)).Intersect(canvas.Bounds())
	if clip.Empty() {
		return fmt.Errorf("image %v does not overlap cell %d", b.Size(), i)
	}
	sp := b.Min.Add(clip.Min.Sub(dst.Min))

	// draw.Src round-trips through premultiplied color, which loses precision
	// at low alpha; NRGBA onto NRGBA is copied byte for byte instead.
	if d, ok := canvas.(*image.NRGBA); ok {
		if s, ok := img.(*image.NRGBA); ok {
			copyNRGBA(d, clip, s, sp)
			return nil
		}
	}
	draw.Draw(canvas, clip, img, sp, draw.Src)
	return nil
}

func copyNRGBA(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA, sp image.Point) {
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)
		copy(dst.Pix[di:di+n], src.Pix[si:si+n])
	}
}
