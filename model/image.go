package model

import (
	"image"
	"time"
)

// Metadata is the (timestamp, title) pair attached to an output image
// before export. The zero value means "nothing assigned".
type Metadata struct {
	Timestamp time.Time
	Title     string
}

// CroppedImage is one photograph materialized out of a RawScan. The
// pixel buffer is exclusively owned by whichever stage currently holds
// the image: correction swaps in a gain-adjusted buffer and sets
// Corrected, rotation swaps in a turned buffer and advances Rotation,
// and nothing else mutates it.
type CroppedImage struct {
	// Img is the owned pixel buffer, anchored at (0, 0).
	Img *image.NRGBA
	// Region records where on the source scan the pixels came from.
	Region Region
	// Rotation is the current orientation relative to the scan.
	Rotation Rotation
	// Corrected is set once a white-balance profile has been applied.
	Corrected bool
	// Meta is the metadata to embed on export; nil until assigned.
	Meta *Metadata
}

// NewCroppedImage materializes a region into pixels, trimming margin
// pixels from every side to remove the background halo detection tends
// to leave. A margin that would consume the region entirely is ignored.
func NewCroppedImage(region Region, margin int) (*CroppedImage, error) {
	box := region.Box
	if margin > 0 {
		if inset := box.Inset(margin); inset.IsValid() {
			box = inset
		}
	}

	buf, err := region.Source.Crop(box)
	if err != nil {
		return nil, err
	}

	return &CroppedImage{
		Img:      buf,
		Region:   region,
		Rotation: Rotate0,
	}, nil
}

// Width returns the current buffer width, after any rotations.
func (c *CroppedImage) Width() int {
	return c.Img.Rect.Dx()
}

// Height returns the current buffer height, after any rotations.
func (c *CroppedImage) Height() int {
	return c.Img.Rect.Dy()
}

// Release drops the pixel buffer after export so the memory can be
// reclaimed while the surrounding session is still alive.
func (c *CroppedImage) Release() {
	c.Img = nil
}
