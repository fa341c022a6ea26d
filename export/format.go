package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a supported raster output format.
type Format int

const (
	// TIFF is the default: lossless, so white-balance rounding error is
	// not compounded by compression.
	TIFF Format = iota
	// PNG is lossless.
	PNG
	// JPEG is lossy; quality comes from Config.JPEGQuality.
	JPEG
	// BMP is uncompressed.
	BMP
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case TIFF:
		return "tiff"
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, including the
// dot.
func (f Format) Extension() string {
	switch f {
	case TIFF:
		return ".tiff"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case BMP:
		return ".bmp"
	default:
		return ""
	}
}

// ParseFormat maps a configuration string ("tiff", "jpg", ...) to a
// Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "tiff", "tif":
		return TIFF, nil
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	default:
		return TIFF, fmt.Errorf("export: unknown format %q", name)
	}
}

// encode serializes img to w in the given format.
func encode(w io.Writer, img image.Image, format Format, jpegQuality int) error {
	switch format {
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("export: unknown format %d", int(format))
	}
}
