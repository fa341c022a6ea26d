package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rinehartj/scansplit/detect"
	"github.com/rinehartj/scansplit/export"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 300, cfg.DefaultDPI)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 5, cfg.CropMargin)
	require.Equal(t, uint8(48), cfg.Detect.Threshold)
	require.Equal(t, float64(255), cfg.Calibration.TargetWhite)
	require.Equal(t, "tiff", cfg.Export.Format)
	require.Equal(t, 98, cfg.Export.JPEGQuality)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
environment: production
workers: 4
detect:
  mode: otsu
  minAreaRatio: 0.02
export:
  format: jpeg
  onCollision: reject
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "otsu", cfg.Detect.Mode)
	require.Equal(t, 0.02, cfg.Detect.MinAreaRatio)
	require.Equal(t, "jpeg", cfg.Export.Format)
	require.Equal(t, "reject", cfg.Export.OnCollision)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DETECT_THRESHOLD", "32")
	t.Setenv("EXPORT_FORMAT", "png")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	require.Equal(t, uint8(32), cfg.Detect.Threshold)
	require.Equal(t, "png", cfg.Export.Format)
}

func TestDetectConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	dc, err := cfg.DetectConfig()
	require.NoError(t, err)
	require.Equal(t, detect.ThresholdFixed, dc.Mode)
	require.Equal(t, uint8(48), dc.Threshold)
	require.Equal(t, 0.05, dc.MergeOverlapRatio)

	cfg.Detect.Mode = "otsu"
	dc, err = cfg.DetectConfig()
	require.NoError(t, err)
	require.Equal(t, detect.ThresholdOtsu, dc.Mode)

	cfg.Detect.Mode = "adaptive"
	_, err = cfg.DetectConfig()
	require.Error(t, err)
}

func TestExportConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	ec, err := cfg.ExportConfig()
	require.NoError(t, err)
	require.Equal(t, export.TIFF, ec.Format)
	require.Equal(t, export.AutoSuffix, ec.Collision)

	cfg.Export.OnCollision = "reject"
	ec, err = cfg.ExportConfig()
	require.NoError(t, err)
	require.Equal(t, export.Reject, ec.Collision)

	cfg.Export.Format = "gif"
	_, err = cfg.ExportConfig()
	require.Error(t, err)
}

func TestCalibrationConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	wc := cfg.CalibrationConfig()
	require.Equal(t, float64(255), wc.TargetWhite)
	require.Equal(t, float64(16), wc.MinMean)
}
