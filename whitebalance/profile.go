// Package whitebalance derives per-channel gain corrections from a
// calibration scan and applies them to cropped photos.
//
// Calibration averages a reference patch (a blank white card scanned on
// the same device) and computes gain = target white / channel mean.
// The resulting Profile is immutable: recalibrating produces a new
// value, so corrections already in flight stay reproducible.
package whitebalance

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rinehartj/scansplit/model"
)

// channelNames index the R, G, B positions of the gain triple in error
// messages.
var channelNames = [3]string{"red", "green", "blue"}

// Config holds calibration parameters.
type Config struct {
	// TargetWhite is the channel value the reference patch is mapped to.
	TargetWhite float64

	// MinMean is the minimum acceptable channel mean of the reference
	// patch. A darker patch would demand absurd amplification, so
	// calibration fails instead.
	MinMean float64
}

// DefaultConfig returns the default calibration configuration.
func DefaultConfig() Config {
	return Config{
		TargetWhite: 255,
		MinMean:     16,
	}
}

// Profile is an immutable white-balance correction model: one gain per
// channel plus the sampling that produced it. Profiles marshal to JSON
// so a calibration can be saved and reused across sessions.
type Profile struct {
	// Gains are the R, G, B channel multipliers.
	Gains [3]float64 `json:"gains"`

	// Means are the reference patch channel means the gains were
	// derived from.
	Means [3]float64 `json:"means"`

	// SampleRegion is where on the reference scan the patch was read.
	SampleRegion model.Rect `json:"sampleRegion"`

	// TargetWhite is the white point the gains aim for.
	TargetWhite float64 `json:"targetWhite"`
}

// DegenerateCalibrationError reports a reference patch too dark to
// calibrate from. It aborts the whole calibration: a profile built on a
// near-black patch would make every subsequent correction meaningless.
type DegenerateCalibrationError struct {
	Channel string
	Mean    float64
	Floor   float64
}

func (e *DegenerateCalibrationError) Error() string {
	return fmt.Sprintf("whitebalance: degenerate calibration: %s channel mean %.2f below floor %.2f",
		e.Channel, e.Mean, e.Floor)
}

// Calibrate builds a Profile from the reference patch under sampleRegion
// of referenceScan. It fails with DegenerateCalibrationError when any
// channel mean falls below config.MinMean.
func Calibrate(referenceScan *model.RawScan, sampleRegion model.Rect, config Config) (*Profile, error) {
	if referenceScan == nil {
		return nil, fmt.Errorf("whitebalance: nil reference scan")
	}
	region := model.Region{Box: sampleRegion, Source: referenceScan}
	if err := region.Validate(-1); err != nil {
		return nil, fmt.Errorf("whitebalance: sample region: %w", err)
	}

	var sums [3]float64
	for y := sampleRegion.Top(); y < sampleRegion.Bottom(); y++ {
		for x := sampleRegion.Left(); x < sampleRegion.Right(); x++ {
			c := referenceScan.NRGBAAt(x, y)
			sums[0] += float64(c.R)
			sums[1] += float64(c.G)
			sums[2] += float64(c.B)
		}
	}

	count := float64(sampleRegion.Area())
	profile := &Profile{
		SampleRegion: sampleRegion,
		TargetWhite:  config.TargetWhite,
	}
	for i := range sums {
		mean := sums[i] / count
		if mean < config.MinMean {
			return nil, &DegenerateCalibrationError{
				Channel: channelNames[i],
				Mean:    mean,
				Floor:   config.MinMean,
			}
		}
		profile.Means[i] = mean
		profile.Gains[i] = config.TargetWhite / mean
	}

	return profile, nil
}

// Validate checks that the profile's gains are finite, positive and
// bounded. Profiles built by Calibrate always pass; profiles loaded from
// a file may not.
func (p *Profile) Validate() error {
	for i, g := range p.Gains {
		if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
			return fmt.Errorf("whitebalance: invalid %s gain %v", channelNames[i], g)
		}
	}
	return nil
}

// Save writes the profile to path as JSON.
func (p *Profile) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("whitebalance: encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("whitebalance: write profile: %w", err)
	}
	return nil
}

// LoadProfile reads a profile previously written by Save and validates
// its gains.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("whitebalance: read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("whitebalance: decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
