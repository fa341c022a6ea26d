// Package config loads the CLI configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rinehartj/scansplit/detect"
	"github.com/rinehartj/scansplit/export"
	"github.com/rinehartj/scansplit/whitebalance"
)

// Config is the application configuration. Every detection and export
// policy knob is settable here; defaults match the library defaults.
type Config struct {
	// Environment selects the logging setup (development, production).
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// DefaultDPI is assumed for scan files without resolution metadata.
	DefaultDPI int `env:"DEFAULT_DPI" env-default:"300" yaml:"defaultDpi"`

	// Workers is the number of concurrent per-region processing tasks.
	Workers int `env:"WORKERS" env-default:"1" yaml:"workers"`

	// CropMargin is the pixel inset applied when a region is cropped.
	CropMargin int `env:"CROP_MARGIN" env-default:"5" yaml:"cropMargin"`

	// Detect holds region detection settings.
	Detect struct {
		// Threshold is the fixed foreground cut.
		Threshold uint8 `env:"DETECT_THRESHOLD" env-default:"48" yaml:"threshold"`
		// Mode is "fixed" or "otsu".
		Mode string `env:"DETECT_MODE" env-default:"fixed" yaml:"mode"`
		// BandFraction sizes the background sampling bands.
		BandFraction float64 `env:"DETECT_BAND_FRACTION" env-default:"0.02" yaml:"bandFraction"`
		// MinBand is the band thickness floor in pixels.
		MinBand int `env:"DETECT_MIN_BAND" env-default:"4" yaml:"minBand"`
		// MinAreaRatio drops components below this fraction of scan area.
		MinAreaRatio float64 `env:"DETECT_MIN_AREA_RATIO" env-default:"0.01" yaml:"minAreaRatio"`
		// MinAreaPixels is the absolute component area floor.
		MinAreaPixels int `env:"DETECT_MIN_AREA_PIXELS" env-default:"64" yaml:"minAreaPixels"`
		// MergeOverlapRatio merges boxes overlapping beyond it.
		MergeOverlapRatio float64 `env:"DETECT_MERGE_OVERLAP_RATIO" env-default:"0.05" yaml:"mergeOverlapRatio"`
	} `yaml:"detect"`

	// Calibration holds white-balance calibration settings.
	Calibration struct {
		// TargetWhite is the white point gains aim for.
		TargetWhite float64 `env:"CALIBRATION_TARGET_WHITE" env-default:"255" yaml:"targetWhite"`
		// MinMean rejects reference patches darker than this.
		MinMean float64 `env:"CALIBRATION_MIN_MEAN" env-default:"16" yaml:"minMean"`
	} `yaml:"calibration"`

	// Export holds output settings.
	Export struct {
		// Format is tiff, png, jpeg or bmp.
		Format string `env:"EXPORT_FORMAT" env-default:"tiff" yaml:"format"`
		// JPEGQuality applies when Format is jpeg.
		JPEGQuality int `env:"EXPORT_JPEG_QUALITY" env-default:"98" yaml:"jpegQuality"`
		// OnCollision is "auto-suffix" or "reject".
		OnCollision string `env:"EXPORT_ON_COLLISION" env-default:"auto-suffix" yaml:"onCollision"`
	} `yaml:"export"`
}

// Load reads the YAML file at configPath merged with the environment.
// A missing file is not an error; the environment and defaults apply.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}
	return &cfg, nil
}

// DetectConfig converts the detection section to a detect.Config.
func (c *Config) DetectConfig() (detect.Config, error) {
	dc := detect.Config{
		BandFraction:      c.Detect.BandFraction,
		MinBand:           c.Detect.MinBand,
		Threshold:         c.Detect.Threshold,
		MinAreaRatio:      c.Detect.MinAreaRatio,
		MinAreaPixels:     c.Detect.MinAreaPixels,
		MergeOverlapRatio: c.Detect.MergeOverlapRatio,
	}
	switch c.Detect.Mode {
	case "fixed", "":
		dc.Mode = detect.ThresholdFixed
	case "otsu":
		dc.Mode = detect.ThresholdOtsu
	default:
		return dc, fmt.Errorf("unknown detect mode %q", c.Detect.Mode)
	}
	return dc, nil
}

// CalibrationConfig converts the calibration section to a
// whitebalance.Config.
func (c *Config) CalibrationConfig() whitebalance.Config {
	return whitebalance.Config{
		TargetWhite: c.Calibration.TargetWhite,
		MinMean:     c.Calibration.MinMean,
	}
}

// ExportConfig converts the export section to an export.Config.
func (c *Config) ExportConfig() (export.Config, error) {
	format, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return export.Config{}, err
	}

	ec := export.Config{
		Format:      format,
		JPEGQuality: c.Export.JPEGQuality,
	}
	switch c.Export.OnCollision {
	case "auto-suffix", "":
		ec.Collision = export.AutoSuffix
	case "reject":
		ec.Collision = export.Reject
	default:
		return ec, fmt.Errorf("unknown collision policy %q", c.Export.OnCollision)
	}
	return ec, nil
}
