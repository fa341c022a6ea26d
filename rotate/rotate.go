// Package rotate turns cropped photos in lossless quarter steps.
//
// Only multiples of 90° are supported, so every rotation is a pure
// transpose/flip of the pixel buffer with no resampling: four clockwise
// turns reproduce the original buffer byte for byte. The buffer and the
// image's Rotation state always advance together.
package rotate

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/rinehartj/scansplit/model"
)

// Clockwise turns img 90° clockwise.
func Clockwise(img *model.CroppedImage) error {
	return turn(img, img.Rotation.Clockwise())
}

// CounterClockwise turns img 90° counter-clockwise.
func CounterClockwise(img *model.CroppedImage) error {
	return turn(img, img.Rotation.CounterClockwise())
}

// To rotates img to an absolute orientation, however it is currently
// turned.
func To(img *model.CroppedImage, rotation model.Rotation) error {
	return turn(img, rotation)
}

func turn(img *model.CroppedImage, target model.Rotation) error {
	if img.Img == nil {
		return fmt.Errorf("rotate: image buffer already released")
	}
	if target == img.Rotation {
		return nil
	}

	// Undo the current orientation, then apply the target one. Both are
	// lossless, so the round trip costs nothing in fidelity.
	upright := Image(img.Img, invert(img.Rotation))
	img.Img = Image(upright, target)
	img.Rotation = target
	return nil
}

// Image returns a copy of src turned clockwise by rotation. Rotate0
// still copies, keeping the ownership rule that every stage hands
// forward a buffer nothing else references.
func Image(src *image.NRGBA, rotation model.Rotation) *image.NRGBA {
	switch rotation {
	case model.Rotate90:
		// imaging rotates counter-clockwise, so a clockwise quarter turn
		// is its 270.
		return imaging.Rotate270(src)
	case model.Rotate180:
		return imaging.Rotate180(src)
	case model.Rotate270:
		return imaging.Rotate90(src)
	default:
		return imaging.Clone(src)
	}
}

// invert returns the rotation that undoes r.
func invert(r model.Rotation) model.Rotation {
	switch r {
	case model.Rotate90:
		return model.Rotate270
	case model.Rotate270:
		return model.Rotate90
	default:
		return r
	}
}
