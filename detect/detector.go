package detect

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ernyoke/imger/threshold"

	"github.com/rinehartj/scansplit/model"
)

// ErrNoRegions is returned when thresholding leaves an empty foreground
// mask, or when every component is filtered out as noise. Callers decide
// whether to fall back to treating the whole scan as a single region.
var ErrNoRegions = errors.New("detect: no photo regions found on scan")

// ThresholdMode selects how the background/foreground cut is chosen.
type ThresholdMode int

const (
	// ThresholdFixed uses the Config.Threshold value directly.
	ThresholdFixed ThresholdMode = iota
	// ThresholdOtsu derives the cut from the distance histogram using
	// Otsu's method.
	ThresholdOtsu
)

// String returns the mode name as used in configuration files.
func (m ThresholdMode) String() string {
	switch m {
	case ThresholdFixed:
		return "fixed"
	case ThresholdOtsu:
		return "otsu"
	default:
		return "unknown"
	}
}

// Config holds detector configuration. Every policy constant of the
// detection algorithm is exposed here rather than hard-coded.
type Config struct {
	// BandFraction is the thickness of the border bands sampled for the
	// background reference, as a fraction of the shorter scan side.
	BandFraction float64

	// MinBand is the minimum band thickness in pixels, applied after
	// BandFraction for very small scans.
	MinBand int

	// Threshold is the foreground cut for ThresholdFixed: a pixel whose
	// maximum per-channel distance from the background mean exceeds it
	// is foreground.
	Threshold uint8

	// Mode selects fixed or Otsu thresholding.
	Mode ThresholdMode

	// MinAreaRatio drops components smaller than this fraction of the
	// scan area (dust, scratches).
	MinAreaRatio float64

	// MinAreaPixels is an absolute floor on component area in pixels.
	MinAreaPixels int

	// MergeOverlapRatio merges two components whose bounding boxes
	// overlap by more than this fraction of the smaller box. Handles a
	// single photo split in two by a background-colored scratch.
	MergeOverlapRatio float64
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		BandFraction:      0.02,
		MinBand:           4,
		Threshold:         48,
		Mode:              ThresholdFixed,
		MinAreaRatio:      0.01,
		MinAreaPixels:     64,
		MergeOverlapRatio: 0.05,
	}
}

// Detector finds photo regions on a scan.
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return NewDetectorWithConfig(DefaultConfig())
}

// NewDetectorWithConfig creates a detector with custom configuration.
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config}
}

// Detect finds the photographs on scan and returns them as regions in
// top-left reading order. The scan is read but never modified. Detection
// honors ctx at row-chunk and component granularity, so a cancelled pass
// stops promptly without corrupting anything already produced.
func (d *Detector) Detect(ctx context.Context, scan *model.RawScan) ([]model.Region, error) {
	if scan == nil {
		return nil, fmt.Errorf("detect: nil scan")
	}

	// Step 1: Sample the scan-bed color from the border bands
	band := bandThickness(scan, d.config)
	background := sampleBackground(scan, band)

	// Step 2: Build the per-pixel distance image and threshold it into a
	// foreground mask
	dist, err := distanceImage(ctx, scan, background)
	if err != nil {
		return nil, err
	}

	var mask *image.Gray
	switch d.config.Mode {
	case ThresholdOtsu:
		m, err := threshold.OtsuThreshold(dist, threshold.ThreshBinary)
		if err != nil {
			return nil, fmt.Errorf("detect: otsu threshold: %w", err)
		}
		mask = m
	default:
		m, err := threshold.Threshold(dist, d.config.Threshold, threshold.ThreshBinary)
		if err != nil {
			return nil, fmt.Errorf("detect: threshold: %w", err)
		}
		mask = m
	}

	// Step 3: Label connected foreground components
	components, err := findComponents(ctx, mask)
	if err != nil {
		return nil, err
	}

	// Step 4: Filter out noise components
	minArea := d.config.MinAreaPixels
	if ratioArea := int(d.config.MinAreaRatio * float64(scan.Bounds().Area())); ratioArea > minArea {
		minArea = ratioArea
	}

	var boxes []model.Rect
	for _, c := range components {
		if c.pixels < minArea || !c.box.IsValid() {
			continue
		}
		boxes = append(boxes, c.box)
	}

	// Step 5: Merge boxes split by background-colored artifacts
	boxes = mergeBoxes(boxes, d.config.MergeOverlapRatio)

	if len(boxes) == 0 {
		return nil, ErrNoRegions
	}

	// Step 6: Order deterministically and wrap as regions
	orderBoxes(boxes)

	regions := make([]model.Region, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, model.Region{
			Box:        box,
			Source:     scan,
			Provenance: model.ProvenanceAuto,
		})
	}
	return regions, nil
}
