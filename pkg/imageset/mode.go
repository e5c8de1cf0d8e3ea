package imageset

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Mode is the pixel format of the composed sheet.
type Mode int

const (
	// ModeRGB is an opaque three-channel canvas.
	ModeRGB Mode = iota
	// ModeRGBA keeps an alpha channel.
	ModeRGBA
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ChooseMode picks the canvas mode from the reference image and the
// background: a transparent background always needs RGBA, an image with alpha
// keeps it unless the background is plain white, and everything else is RGB.
func ChooseMode(refHasAlpha, transparentBackground, whiteBackground bool) Mode {
	switch {
	case transparentBackground:
		return ModeRGBA
	case refHasAlpha && !whiteBackground:
		return ModeRGBA
	default:
		return ModeRGB
	}
}

// HasAlpha reports whether the decoded image carries an alpha channel.
// Decoders return non-premultiplied types for formats with alpha and
// premultiplied or opaque types for formats without. Palette images count as
// opaque even when some entries are transparent: a transparent palette index
// is not an alpha channel.
func HasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Alpha, *image.Alpha16:
		return true
	default:
		return false
	}
}

// pngColorTypeOffset is the position of the color type byte in a PNG file:
// signature (8), IHDR length and type (8), width and height (8), bit depth (1).
const pngColorTypeOffset = 25

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngDeclaresAlpha reads the PNG header at path and reports whether its color
// type has an alpha channel (gray+alpha or RGBA). ok is false when path is not
// a readable PNG. A tRNS chunk on a gray, RGB or palette image does not count:
// the Go decoder widens those to NRGBA, but the file has no alpha channel.
func pngDeclaresAlpha(path string) (alpha, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return false, false
	}
	defer f.Close()

	head := make([]byte, pngColorTypeOffset+1)
	if _, err := io.ReadFull(f, head); err != nil {
		return false, false
	}
	if !bytes.Equal(head[:8], pngSignature) || string(head[12:16]) != "IHDR" {
		return false, false
	}
	switch head[pngColorTypeOffset] {
	case 4, 6:
		return true, true
	default:
		return false, true
	}
}

// Convert returns a copy of img in the given mode. RGB drops the alpha channel
// and keeps the stored color values; RGBA keeps non-premultiplied color and alpha.
func Convert(img image.Image, mode Mode) (out image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("convert to %s: %v", mode, r)
		}
	}()
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("convert to %s: empty image", mode)
	}

	dst := imaging.Clone(img)
	switch mode {
	case ModeRGBA:
		return dst, nil
	case ModeRGB:
		dropAlpha(dst)
		return dst, nil
	default:
		return nil, fmt.Errorf("unsupported mode %s", mode)
	}
}

func dropAlpha(m *image.NRGBA) {
	for y := 0; y < m.Rect.Dy(); y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+m.Rect.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			row[i] = 0xff
		}
	}
}
