// Package scanio loads scan files produced by the acquisition layer.
//
// The acquisition layer itself (scanner enumeration, WIA/SANE drivers,
// acquisition timeouts) is outside this module; scanio only turns an
// already-saved capture back into a RawScan. Scan resolution is read
// from the file's EXIF tags when present, falling back to a configured
// default for formats that carry none.
package scanio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rinehartj/scansplit/model"
)

// cmPerInch converts centimeter resolutions to DPI.
const cmPerInch = 2.54

// Config holds scan loading configuration.
type Config struct {
	// DefaultDPI is assumed when the file carries no resolution tags.
	DefaultDPI int
}

// DefaultConfig returns the default loading configuration.
func DefaultConfig() Config {
	return Config{DefaultDPI: 300}
}

// Read loads the scan at path with the default configuration.
func Read(path string) (*model.RawScan, error) {
	return ReadWithConfig(path, DefaultConfig())
}

// ReadWithConfig loads a scan file (PNG, JPEG, TIFF or BMP) and wraps it
// as a RawScan. DPI comes from the file's EXIF resolution tags when
// present, config.DefaultDPI otherwise.
func ReadWithConfig(path string, config Config) (*model.RawScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scanio: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scanio: decode %s: %w", path, err)
	}

	dpiX, dpiY := config.DefaultDPI, config.DefaultDPI
	if _, err := f.Seek(0, 0); err == nil {
		if x, y, ok := dpiFromEXIF(f); ok {
			dpiX, dpiY = x, y
		}
	}

	return model.NewRawScan(img, dpiX, dpiY), nil
}

// dpiFromEXIF extracts the X/Y resolution from EXIF tags, honoring the
// ResolutionUnit tag (inches or centimeters). Files without usable tags
// return ok=false.
func dpiFromEXIF(f *os.File) (dpiX, dpiY int, ok bool) {
	x, err := exif.Decode(f)
	if err != nil {
		return 0, 0, false
	}

	resX, okX := ratTag(x, exif.XResolution)
	resY, okY := ratTag(x, exif.YResolution)
	if !okX || !okY || resX <= 0 || resY <= 0 {
		return 0, 0, false
	}

	// ResolutionUnit 3 means pixels per centimeter; 2 (and absent, the
	// EXIF default) means pixels per inch.
	if unitTag, err := x.Get(exif.ResolutionUnit); err == nil {
		if unit, err := unitTag.Int(0); err == nil && unit == 3 {
			resX *= cmPerInch
			resY *= cmPerInch
		}
	}

	return int(resX + 0.5), int(resY + 0.5), true
}

// ratTag reads a rational EXIF tag as a float.
func ratTag(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	rat, err := tag.Rat(0)
	if err != nil {
		return 0, false
	}
	v, _ := rat.Float64()
	return v, true
}
