package imageset

import (
	stderrors "errors"
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// Stage names reported in Skip records.
const (
	StageDecode  = "decode"
	StageResize  = "resize"
	StageConvert = "convert"
	StagePaste   = "paste"
	StageLabel   = "label"
	StageCopy    = "copy"
)

// SourceImage is one decoded file. Image holds the working buffer, which is
// the decoded image after the optional resize and, once normalized, after the
// mode conversion.
type SourceImage struct {
	Path     string
	Name     string
	Image    image.Image
	Original image.Point // decoded size
	Size     image.Point // working size
	HasAlpha bool        // the decoded image declares an alpha channel
}

// Skip records a file that was left out of one stage.
type Skip struct {
	File   string
	Stage  string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s (%s failed: %s)", s.File, s.Stage, s.Reason)
}

// SkipOf converts a per-file error into a Skip. Errors that are not
// *errors.FileError are attributed to file with an unknown stage.
func SkipOf(file string, err error) Skip {
	var fe *errors.FileError
	if stderrors.As(err, &fe) {
		return Skip{File: fe.File, Stage: fe.Stage, Reason: fe.Err.Error()}
	}
	return Skip{File: file, Stage: "unknown", Reason: err.Error()}
}

// Result is the outcome of processing one file: exactly one of Image and Skip
// is set.
type Result struct {
	Image *SourceImage
	Skip  *Skip
}

// OK reports whether the file was processed successfully.
func (r Result) OK() bool { return r.Image != nil }

// Entry is an image placed on the sheet. Index is its 0-based position in
// sorted, successfully loaded order.
type Entry struct {
	Index int
	Name  string
	Path  string
	Image image.Image
}

// Reference captures what the first successfully processed image decides for
// the whole sheet.
type Reference struct {
	Name string
	Size image.Point
	Mode Mode
}

// DecodeFunc opens and decodes the image at path.
type DecodeFunc func(path string) (image.Image, error)

// OpenImage decodes path with EXIF auto-orientation applied.
func OpenImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// Options controls loading.
type Options struct {
	// TargetWidth downscales wider images to this width; 0 disables resizing.
	TargetWidth int

	// TransparentBackground and WhiteBackground describe the configured
	// background and drive canvas mode selection.
	TransparentBackground bool
	WhiteBackground       bool

	// Decode replaces the default decoder (OpenImage).
	Decode DecodeFunc
}

// Set is the normalized collection of images for one sheet.
type Set struct {
	Entries   []Entry
	Skips     []Skip
	Reference Reference
}

// Load runs both loading phases over paths, which must already be sorted.
// It returns an error with code NO_VALID_IMAGES when nothing survives.
func Load(paths []string, opts Options) (*Set, error) {
	decode := opts.Decode
	if decode == nil {
		decode = OpenImage
	}

	// Phase 1: decode and resize.
	results := make([]Result, len(paths))
	for i, p := range paths {
		src, err := Decode(p, opts.TargetWidth, decode)
		if err != nil {
			skip := SkipOf(filepath.Base(p), err)
			results[i] = Result{Skip: &skip}
			continue
		}
		results[i] = Result{Image: src}
	}

	set := &Set{}
	var ref *SourceImage
	for _, r := range results {
		if r.OK() {
			ref = r.Image
			break
		}
	}
	if ref == nil {
		for _, r := range results {
			set.Skips = append(set.Skips, *r.Skip)
		}
		return set, errors.New(errors.ErrCodeNoValidImages, "no valid images could be processed (%d skipped)", len(set.Skips))
	}
	set.Reference = Reference{
		Name: ref.Name,
		Size: ref.Size,
		Mode: ChooseMode(ref.HasAlpha, opts.TransparentBackground, opts.WhiteBackground),
	}

	// Phase 2: convert against the fixed reference.
	for _, r := range results {
		if !r.OK() {
			set.Skips = append(set.Skips, *r.Skip)
			continue
		}
		converted, err := Convert(r.Image.Image, set.Reference.Mode)
		if err != nil {
			set.Skips = append(set.Skips, Skip{File: r.Image.Name, Stage: StageConvert, Reason: err.Error()})
			continue
		}
		set.Entries = append(set.Entries, Entry{
			Index: len(set.Entries),
			Name:  r.Image.Name,
			Path:  r.Image.Path,
			Image: converted,
		})
	}

	if len(set.Entries) == 0 {
		return set, errors.New(errors.ErrCodeNoValidImages, "no valid images could be processed (%d skipped)", len(set.Skips))
	}
	return set, nil
}

// Decode opens one file and downscales it when it is wider than targetWidth.
// Failures are returned as *errors.FileError.
func Decode(path string, targetWidth int, decode DecodeFunc) (*SourceImage, error) {
	name := filepath.Base(path)

	img, err := decode(path)
	if err != nil {
		return nil, &errors.FileError{File: name, Stage: StageDecode, Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &errors.FileError{File: name, Stage: StageDecode, Err: fmt.Errorf("image has no pixels")}
	}

	src := &SourceImage{
		Path:     path,
		Name:     name,
		Image:    img,
		Original: b.Size(),
		Size:     b.Size(),
		HasAlpha: HasAlpha(img),
	}
	if alpha, ok := pngDeclaresAlpha(path); ok {
		src.HasAlpha = alpha
	}

	if targetWidth > 0 && b.Dx() > targetWidth {
		w, h := FitWidth(b.Dx(), b.Dy(), targetWidth)
		resized, err := resize(img, w, h)
		if err != nil {
			return nil, &errors.FileError{File: name, Stage: StageResize, Err: err}
		}
		src.Image = resized
		src.Size = resized.Bounds().Size()
	}
	return src, nil
}

// FitWidth returns the size of a w×h image scaled to width target with the
// aspect ratio preserved: height = round(target * h / w), at least 1.
func FitWidth(w, h, target int) (int, int) {
	nh := int(math.Round(float64(target) * float64(h) / float64(w)))
	if nh < 1 {
		nh = 1
	}
	return target, nh
}

func resize(img image.Image, w, h int) (out image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resize to %dx%d: %v", w, h, r)
		}
	}()
	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	if resized.Bounds().Dx() != w || resized.Bounds().Dy() != h {
		return nil, fmt.Errorf("resize to %dx%d produced %v", w, h, resized.Bounds().Size())
	}
	return resized, nil
}
