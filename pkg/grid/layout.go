// Package grid computes sheet geometry and composes images onto the canvas.
//
// Geometry is a pure function of the image count, the canonical cell size,
// the label band height and the spacing:
//
//	columns = ceil(sqrt(count))
//	rows    = ceil(count / columns)
//	width   = columns*cellWidth + (columns+1)*spacing
//	height  = rows*(cellHeight+labelHeight) + (rows+1)*spacing
//
// Spacing surrounds the sheet on all four sides and separates the cells.
// Each cell stacks its label band (if any) above the image area.
package grid

import (
	"image"
	"math"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// Layout holds the derived geometry of one sheet.
type Layout struct {
	Count   int
	Columns int
	Rows    int

	CellWidth       int
	CellHeight      int
	LabelHeight     int
	CellTotalHeight int
	Spacing         int

	CanvasWidth  int
	CanvasHeight int
}

// Compute derives the layout for count cells of cellWidth×cellHeight with a
// label band of labelHeight (0 when numbering is off).
func Compute(count, cellWidth, cellHeight, labelHeight, spacing int) (Layout, error) {
	if count < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "grid needs at least one image, got %d", count)
	}
	if cellWidth < 1 || cellHeight < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "invalid cell size %dx%d", cellWidth, cellHeight)
	}
	if labelHeight < 0 || spacing < 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "label height and spacing must be >= 0")
	}

	cols := ceilSqrt(count)
	rows := (count + cols - 1) / cols
	total := cellHeight + labelHeight

	return Layout{
		Count:           count,
		Columns:         cols,
		Rows:            rows,
		CellWidth:       cellWidth,
		CellHeight:      cellHeight,
		LabelHeight:     labelHeight,
		CellTotalHeight: total,
		Spacing:         spacing,
		CanvasWidth:     cols*cellWidth + (cols+1)*spacing,
		CanvasHeight:    rows*total + (rows+1)*spacing,
	}, nil
}

// ceilSqrt returns the smallest c with c*c >= n, for n >= 1.
func ceilSqrt(n int) int {
	c := int(math.Sqrt(float64(n)))
	for c*c < n {
		c++
	}
	for c > 1 && (c-1)*(c-1) >= n {
		c--
	}
	return c
}

// Size returns the canvas size.
func (l Layout) Size() image.Point {
	return image.Pt(l.CanvasWidth, l.CanvasHeight)
}

// Position returns the row and column of the i-th cell (0-based).
func (l Layout) Position(i int) (row, col int) {
	return i / l.Columns, i % l.Columns
}

// CellOrigin returns the top-left corner of the i-th cell, label band included.
func (l Layout) CellOrigin(i int) image.Point {
	row, col := l.Position(i)
	return image.Pt(
		l.Spacing+col*(l.CellWidth+l.Spacing),
		l.Spacing+row*(l.CellTotalHeight+l.Spacing),
	)
}

// LabelRect returns the label band of the i-th cell. It is empty when
// numbering is off.
func (l Layout) LabelRect(i int) image.Rectangle {
	o := l.CellOrigin(i)
	return image.Rect(o.X, o.Y, o.X+l.CellWidth, o.Y+l.LabelHeight)
}

// ImageRect returns the image area of the i-th cell, below its label band.
func (l Layout) ImageRect(i int) image.Rectangle {
	o := l.CellOrigin(i)
	top := o.Y + l.LabelHeight
	return image.Rect(o.X, top, o.X+l.CellWidth, top+l.CellHeight)
}

// PasteRect returns where an image of the given size lands in the i-th cell:
// centered in the image area. The result may extend past the cell when the
// image is larger than the canonical cell size.
func (l Layout) PasteRect(i int, size image.Point) image.Rectangle {
	area := l.ImageRect(i)
	x := area.Min.X + (l.CellWidth-size.X)/2
	y := area.Min.Y + (l.CellHeight-size.Y)/2
	return image.Rect(x, y, x+size.X, y+size.Y)
}
