package export

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// Compression maps configuration names to PNG encoder levels.
var Compression = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"fast":    png.BestSpeed,
	"best":    png.BestCompression,
}

// Saved describes a written sheet.
type Saved struct {
	Path  string
	Bytes int64
}

// SavePNG encodes img as PNG into dir/name, creating dir if needed. An
// unknown compression name falls back to the encoder default. An output
// directory that cannot be created is a CONFIG_ERROR; every other failure is
// a SAVE_ERROR.
func SavePNG(img image.Image, dir, name, compression string) (Saved, error) {
	if img == nil {
		return Saved{}, errors.New(errors.ErrCodeSave, "nothing to save")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Saved{}, errors.Wrap(errors.ErrCodeConfig, err, "create output directory %s", dir)
	}

	level, ok := Compression[compression]
	if !ok {
		level = png.DefaultCompression
	}

	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(level)); err != nil {
		return Saved{}, errors.Wrap(errors.ErrCodeSave, err, "save %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Saved{}, errors.Wrap(errors.ErrCodeSave, err, "stat %s", path)
	}
	return Saved{Path: path, Bytes: info.Size()}, nil
}
