package whitebalance

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/rinehartj/scansplit/model"
)

// ErrAlreadyCorrected is returned by Apply when the image's correction
// flag is already set. Gain application is deliberately not idempotent
// (a second pass over-brightens), so double application is refused
// unless forced.
var ErrAlreadyCorrected = errors.New("whitebalance: image already corrected")

// Corrector applies one immutable profile to cropped images. A single
// corrector may be shared by concurrent per-region tasks; it holds no
// mutable state.
type Corrector struct {
	profile *Profile
}

// NewCorrector creates a corrector for profile.
func NewCorrector(profile *Profile) (*Corrector, error) {
	if profile == nil {
		return nil, fmt.Errorf("whitebalance: nil profile")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Corrector{profile: profile}, nil
}

// Profile returns the profile the corrector applies.
func (c *Corrector) Profile() *Profile {
	return c.profile
}

// Apply multiplies every pixel of img by the profile gains, swaps the
// corrected buffer into img and sets its Corrected flag. It fails with
// ErrAlreadyCorrected when the flag is already set.
func (c *Corrector) Apply(img *model.CroppedImage) error {
	if img.Corrected {
		return ErrAlreadyCorrected
	}
	return c.apply(img)
}

// ForceApply applies the gains regardless of the Corrected flag. It
// exists for deliberate re-correction after a forced profile change; the
// result is brighter than a single application.
func (c *Corrector) ForceApply(img *model.CroppedImage) error {
	return c.apply(img)
}

func (c *Corrector) apply(img *model.CroppedImage) error {
	if img.Img == nil {
		return fmt.Errorf("whitebalance: image buffer already released")
	}

	gains := c.profile.Gains
	img.Img = imaging.AdjustFunc(img.Img, func(p color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleChannel(p.R, gains[0]),
			G: scaleChannel(p.G, gains[1]),
			B: scaleChannel(p.B, gains[2]),
			A: p.A,
		}
	})
	img.Corrected = true
	return nil
}

// scaleChannel multiplies a channel value by gain, rounding to nearest
// and clamping to the valid range. Saturation clamps at 255, never
// wraps.
func scaleChannel(v uint8, gain float64) uint8 {
	scaled := float64(v)*gain + 0.5
	if scaled >= 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}
