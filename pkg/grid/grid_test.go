package grid

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/imagegrid/pkg/errors"
	"github.com/matzehuels/imagegrid/pkg/fonts"
	"github.com/matzehuels/imagegrid/pkg/imageset"
)

var white = color.RGBA{255, 255, 255, 255}

// rgbaAt reads a pixel of any canvas as premultiplied 8-bit RGBA.
func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestComputeDimensions(t *testing.T) {
	tests := []struct {
		count    int
		wantCols int
		wantRows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
		{16, 4, 4},
		{17, 5, 4},
		{100, 10, 10},
		{101, 11, 10},
	}

	for _, tt := range tests {
		l, err := Compute(tt.count, 10, 10, 0, 0)
		if err != nil {
			t.Fatalf("Compute(%d) error: %v", tt.count, err)
		}
		if l.Columns != tt.wantCols || l.Rows != tt.wantRows {
			t.Errorf("Compute(%d) = %dx%d (cols x rows), want %dx%d",
				tt.count, l.Columns, l.Rows, tt.wantCols, tt.wantRows)
		}
	}
}

func TestComputeCoversCount(t *testing.T) {
	for n := 1; n <= 2000; n++ {
		l, err := Compute(n, 1, 1, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if l.Columns*l.Rows < n {
			t.Fatalf("count %d: %d cells cannot hold all images", n, l.Columns*l.Rows)
		}
		if (l.Columns-1)*(l.Columns-1) >= n {
			t.Fatalf("count %d: columns %d is not ceil(sqrt)", n, l.Columns)
		}
		if l.Columns*(l.Rows-1) >= n {
			t.Fatalf("count %d: rows %d is not ceil(count/columns)", n, l.Rows)
		}
	}
}

func TestComputeCanvasSize(t *testing.T) {
	l, err := Compute(5, 512, 300, 35, 25)
	if err != nil {
		t.Fatal(err)
	}
	if l.CanvasWidth != 1636 {
		t.Errorf("CanvasWidth = %d, want 1636", l.CanvasWidth)
	}
	if l.CanvasHeight != 745 {
		t.Errorf("CanvasHeight = %d, want 745", l.CanvasHeight)
	}
	if l.CellTotalHeight != 335 {
		t.Errorf("CellTotalHeight = %d, want 335", l.CellTotalHeight)
	}

	// Numbering off: the label band vanishes from the geometry.
	l, err = Compute(5, 512, 300, 0, 25)
	if err != nil {
		t.Fatal(err)
	}
	if l.CanvasHeight != 2*300+3*25 {
		t.Errorf("CanvasHeight without labels = %d, want %d", l.CanvasHeight, 2*300+3*25)
	}
}

func TestComputeInvalid(t *testing.T) {
	tests := []struct {
		name                                  string
		count, cellW, cellH, labelH, spacing int
	}{
		{"zero count", 0, 10, 10, 0, 0},
		{"negative count", -3, 10, 10, 0, 0},
		{"zero width", 1, 0, 10, 0, 0},
		{"zero height", 1, 10, 0, 0, 0},
		{"negative label", 1, 10, 10, -1, 0},
		{"negative spacing", 1, 10, 10, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.count, tt.cellW, tt.cellH, tt.labelH, tt.spacing)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Compute() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCellGeometry(t *testing.T) {
	l, err := Compute(5, 100, 50, 20, 10)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		index      int
		wantOrigin image.Point
	}{
		{0, image.Pt(10, 10)},
		{1, image.Pt(120, 10)},
		{2, image.Pt(230, 10)},
		{3, image.Pt(10, 90)},
		{4, image.Pt(120, 90)},
	}

	for _, tt := range tests {
		if got := l.CellOrigin(tt.index); got != tt.wantOrigin {
			t.Errorf("CellOrigin(%d) = %v, want %v", tt.index, got, tt.wantOrigin)
		}
	}

	if got, want := l.LabelRect(4), image.Rect(120, 90, 220, 110); got != want {
		t.Errorf("LabelRect(4) = %v, want %v", got, want)
	}
	if got, want := l.ImageRect(4), image.Rect(120, 110, 220, 160); got != want {
		t.Errorf("ImageRect(4) = %v, want %v", got, want)
	}
	if got, want := l.PasteRect(0, image.Pt(60, 30)), image.Rect(30, 40, 90, 70); got != want {
		t.Errorf("PasteRect(0, 60x30) = %v, want %v", got, want)
	}
}

func TestNewCanvas(t *testing.T) {
	l, err := Compute(2, 4, 4, 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	canvas, err := NewCanvas(l, imageset.ModeRGB, color.RGBA{10, 20, 30, 255}, 0)
	if err != nil {
		t.Fatalf("NewCanvas() error: %v", err)
	}
	if canvas.Bounds().Size() != l.Size() {
		t.Errorf("canvas size = %v, want %v", canvas.Bounds().Size(), l.Size())
	}
	if got := rgbaAt(canvas, 0, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("background = %v", got)
	}

	transparent, err := NewCanvas(l, imageset.ModeRGBA, color.NRGBA{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(transparent, 3, 3); got != (color.RGBA{}) {
		t.Errorf("transparent background = %v", got)
	}
}

func TestNewCanvasTooLarge(t *testing.T) {
	l, err := Compute(4, 1000, 1000, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewCanvas(l, imageset.ModeRGB, white, 1_000_000)
	if !errors.Is(err, errors.ErrCodeCanvasAllocation) {
		t.Errorf("NewCanvas() error = %v, want CANVAS_ALLOCATION", err)
	}

	_, err = NewCanvas(Layout{}, imageset.ModeRGB, white, 0)
	if !errors.Is(err, errors.ErrCodeCanvasAllocation) {
		t.Errorf("NewCanvas(zero layout) error = %v, want CANVAS_ALLOCATION", err)
	}
}

func TestPasteCentersAndClips(t *testing.T) {
	l, err := Compute(1, 4, 4, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGB, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{255, 0, 0, 255}

	if err := Paste(canvas, l, 0, solid(2, 2, red)); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(canvas, 2, 4); got != red {
		t.Errorf("centered pixel = %v, want red", got)
	}
	if got := rgbaAt(canvas, 1, 3); got != white {
		t.Errorf("cell corner = %v, want white", got)
	}

	blue := color.RGBA{0, 0, 255, 255}
	if err := Paste(canvas, l, 0, solid(6, 6, blue)); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(canvas, 1, 3); got != blue {
		t.Errorf("clipped corner = %v, want blue", got)
	}
	if got := rgbaAt(canvas, 0, 2); got != white {
		t.Errorf("outside the cell = %v, want untouched white", got)
	}
	if got := rgbaAt(canvas, 2, 1); got != white {
		t.Errorf("label band = %v, want untouched white", got)
	}
}

func TestPasteReplacesPixels(t *testing.T) {
	l, err := Compute(1, 2, 2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGBA, color.RGBA{0, 255, 0, 255}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := Paste(canvas, l, 0, solid(2, 2, color.NRGBA{})); err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(canvas, 0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel = %v, want transparent (source replaces canvas)", got)
	}
}

func TestPasteKeepsTranslucentColor(t *testing.T) {
	l, err := Compute(1, 4, 4, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGBA, color.NRGBA{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := canvas.(*image.NRGBA)
	if !ok {
		t.Fatalf("RGBA canvas is %T, want *image.NRGBA", canvas)
	}

	tests := []color.NRGBA{
		{200, 10, 10, 3},
		{1, 254, 77, 1},
		{90, 180, 33, 128},
	}
	for _, want := range tests {
		if err := Paste(canvas, l, 0, solid(4, 4, want)); err != nil {
			t.Fatal(err)
		}
		if got := n.NRGBAAt(1, 2); got != want {
			t.Errorf("pasted %v, canvas holds %v", want, got)
		}
	}
}

func TestNewCanvasModes(t *testing.T) {
	l, err := Compute(1, 2, 2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		mode imageset.Mode
		bg   color.Color
		want any
	}{
		{imageset.ModeRGB, white, &image.RGBA{}},
		{imageset.ModeRGBA, color.NRGBA{}, &image.NRGBA{}},
		{imageset.ModeRGBA, color.NRGBA{255, 0, 0, 255}, &image.NRGBA{}},
	}
	for _, tt := range tests {
		canvas, err := NewCanvas(l, tt.mode, tt.bg, 0)
		if err != nil {
			t.Fatalf("NewCanvas(%s) error: %v", tt.mode, err)
		}
		switch tt.want.(type) {
		case *image.RGBA:
			if _, ok := canvas.(*image.RGBA); !ok {
				t.Errorf("NewCanvas(%s) = %T, want *image.RGBA", tt.mode, canvas)
			}
		case *image.NRGBA:
			if _, ok := canvas.(*image.NRGBA); !ok {
				t.Errorf("NewCanvas(%s) = %T, want *image.NRGBA", tt.mode, canvas)
			}
		}
		if got, want := rgbaAt(canvas, 1, 1), color.RGBAModel.Convert(tt.bg).(color.RGBA); got != want {
			t.Errorf("NewCanvas(%s) fill = %v, want %v", tt.mode, got, want)
		}
	}

	if _, err := NewCanvas(l, imageset.Mode(9), white, 0); !errors.Is(err, errors.ErrCodeCanvasAllocation) {
		t.Errorf("NewCanvas(unknown mode) error = %v, want CANVAS_ALLOCATION", err)
	}
}

func TestLabelerDrawsOnNRGBA(t *testing.T) {
	l, err := Compute(1, 20, 20, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGBA, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	lb := NewLabeler(basicfont.Face7x13, color.Black)
	if err := lb.Draw(canvas, "3", l.LabelRect(0)); err != nil {
		t.Fatal(err)
	}
	if ink := inkBounds(canvas, l.LabelRect(0)); ink.Empty() {
		t.Error("no number drawn on an NRGBA canvas")
	}
}

func TestPasteErrors(t *testing.T) {
	l, err := Compute(1, 4, 4, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGB, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := Paste(canvas, l, 0, nil); err == nil {
		t.Error("Paste(nil) should fail")
	}
	if err := Paste(canvas, l, 5, solid(1, 1, white)); err == nil {
		t.Error("Paste() outside the grid should fail")
	}
}

func inkBounds(img image.Image, within image.Rectangle) image.Rectangle {
	ink := image.Rectangle{}
	first := true
	for y := within.Min.Y; y < within.Max.Y; y++ {
		for x := within.Min.X; x < within.Max.X; x++ {
			if rgbaAt(img, x, y).R < 200 {
				p := image.Rect(x, y, x+1, y+1)
				if first {
					ink, first = p, false
				} else {
					ink = ink.Union(p)
				}
			}
		}
	}
	return ink
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestLabelerCentersInk(t *testing.T) {
	face, err := fonts.EmbeddedSource{}.Load(24)
	if err != nil {
		t.Fatal(err)
	}
	lb := NewLabeler(face, color.Black)

	for _, text := range []string{"1", "7", "42", "108"} {
		canvas := image.NewRGBA(image.Rect(0, 0, 140, 80))
		for i := range canvas.Pix {
			canvas.Pix[i] = 0xff
		}
		band := image.Rect(20, 10, 120, 45)

		if err := lb.Draw(canvas, text, band); err != nil {
			t.Fatalf("Draw(%q) error: %v", text, err)
		}

		ink := inkBounds(canvas, canvas.Bounds())
		if ink.Empty() {
			t.Fatalf("Draw(%q) produced no ink", text)
		}
		if !ink.In(band) {
			t.Errorf("Draw(%q) ink %v escapes band %v", text, ink, band)
		}
		left, right := ink.Min.X-band.Min.X, band.Max.X-ink.Max.X
		top, bottom := ink.Min.Y-band.Min.Y, band.Max.Y-ink.Max.Y
		if abs(left-right) > 2 {
			t.Errorf("Draw(%q) horizontal margins %d/%d", text, left, right)
		}
		if abs(top-bottom) > 2 {
			t.Errorf("Draw(%q) vertical margins %d/%d", text, top, bottom)
		}
	}
}

func TestLabelerErrors(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if err := (&Labeler{Color: color.Black}).Draw(canvas, "1", canvas.Bounds()); err == nil {
		t.Error("Draw() without a face should fail")
	}
	lb := NewLabeler(basicfont.Face7x13, color.Black)
	if err := lb.Draw(canvas, "", canvas.Bounds()); err == nil {
		t.Error("Draw() with empty text should fail")
	}
	if err := lb.Draw(canvas, "1", image.Rectangle{}); err == nil {
		t.Error("Draw() into an empty band should fail")
	}
	if err := lb.Draw(nil, "1", canvas.Bounds()); err == nil {
		t.Error("Draw() without a canvas should fail")
	}
}

func entries(n int, size int, c color.Color) []imageset.Entry {
	out := make([]imageset.Entry, n)
	for i := range out {
		out[i] = imageset.Entry{Index: i, Name: string(rune('a'+i)) + ".png", Image: solid(size, size, c)}
	}
	return out
}

func TestComposeWithLabels(t *testing.T) {
	l, err := Compute(5, 20, 20, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGB, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{255, 0, 0, 255}

	c := &Composer{Layout: l, Labeler: NewLabeler(basicfont.Face7x13, color.Black)}
	if skips := c.Compose(canvas, entries(5, 20, red)); len(skips) != 0 {
		t.Fatalf("Compose() skips = %v", skips)
	}

	for i := 0; i < 5; i++ {
		area := l.ImageRect(i)
		if got := rgbaAt(canvas, area.Min.X+10, area.Min.Y+10); got != red {
			t.Errorf("cell %d center = %v, want red", i, got)
		}
		if ink := inkBounds(canvas, l.LabelRect(i)); ink.Empty() {
			t.Errorf("cell %d has no number drawn", i)
		}
	}
	// The unused sixth cell stays blank.
	if ink := inkBounds(canvas, l.LabelRect(5)); !ink.Empty() {
		t.Errorf("empty cell has ink at %v", ink)
	}
}

func TestComposeWithoutLabels(t *testing.T) {
	l, err := Compute(3, 10, 10, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGB, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	yellow := color.RGBA{255, 255, 0, 255}

	c := &Composer{Layout: l}
	if skips := c.Compose(canvas, entries(3, 10, yellow)); len(skips) != 0 {
		t.Fatalf("Compose() skips = %v", skips)
	}
	if ink := inkBounds(canvas, canvas.Bounds()); !ink.Empty() {
		t.Errorf("found text ink at %v with numbering disabled", ink)
	}
}

func TestComposeContinuesAfterPasteFailure(t *testing.T) {
	l, err := Compute(2, 10, 10, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := NewCanvas(l, imageset.ModeRGB, white, 0)
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{255, 0, 0, 255}

	es := entries(2, 10, red)
	es[0].Image = nil

	c := &Composer{Layout: l}
	skips := c.Compose(canvas, es)
	if len(skips) != 1 {
		t.Fatalf("skips = %v, want 1", skips)
	}
	if skips[0].Stage != imageset.StagePaste || skips[0].File != es[0].Name {
		t.Errorf("skip = %+v", skips[0])
	}
	if got := rgbaAt(canvas, l.ImageRect(1).Min.X, l.ImageRect(1).Min.Y); got != red {
		t.Errorf("second cell = %v, want red", got)
	}
}
