package model

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// scanChannelDepth is the per-channel bit depth of the internal buffer.
// Scans are normalized to 8-bit NRGBA on construction.
const scanChannelDepth = 8

// RawScan is a bitmap captured from a scanning device together with the
// physical parameters reported by the acquisition layer. The pixel buffer
// is read-only once constructed: detection reads it in place and every
// downstream stage copies pixels out rather than mutating the scan.
type RawScan struct {
	img     *image.NRGBA
	dpiX    int
	dpiY    int
	originX float64 // inches from the left edge of the scan bed
	originY float64 // inches from the top edge of the scan bed
}

// NewRawScan wraps a decoded image as a RawScan. The pixels are copied
// into a private NRGBA buffer, so the caller may reuse img afterward.
// dpiX and dpiY are the scan resolution; values <= 0 are stored as 0
// (unknown) and disable physical-size queries.
func NewRawScan(img image.Image, dpiX, dpiY int) *RawScan {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	if dpiX < 0 {
		dpiX = 0
	}
	if dpiY < 0 {
		dpiY = 0
	}
	return &RawScan{img: dst, dpiX: dpiX, dpiY: dpiY}
}

// NewRawScanWithOrigin wraps a decoded image and records where on the
// scan bed the capture started, in inches.
func NewRawScanWithOrigin(img image.Image, dpiX, dpiY int, originX, originY float64) *RawScan {
	s := NewRawScan(img, dpiX, dpiY)
	s.originX = originX
	s.originY = originY
	return s
}

// Width returns the scan width in pixels.
func (s *RawScan) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the scan height in pixels.
func (s *RawScan) Height() int {
	return s.img.Rect.Dy()
}

// Bounds returns the full scan area as a Rect anchored at (0, 0).
func (s *RawScan) Bounds() Rect {
	return Rect{X: 0, Y: 0, Width: s.Width(), Height: s.Height()}
}

// DPI returns the horizontal and vertical scan resolution in dots per
// inch. Zero means the resolution is unknown.
func (s *RawScan) DPI() (x, y int) {
	return s.dpiX, s.dpiY
}

// ChannelDepth returns the bits per channel of the pixel buffer.
func (s *RawScan) ChannelDepth() int {
	return scanChannelDepth
}

// Origin returns the position of the scan's top-left corner on the scan
// bed, in inches.
func (s *RawScan) Origin() (x, y float64) {
	return s.originX, s.originY
}

// PhysicalWidth returns the scan width in inches, or 0 when the
// horizontal DPI is unknown.
func (s *RawScan) PhysicalWidth() float64 {
	if s.dpiX == 0 {
		return 0
	}
	return float64(s.Width()) / float64(s.dpiX)
}

// PhysicalHeight returns the scan height in inches, or 0 when the
// vertical DPI is unknown.
func (s *RawScan) PhysicalHeight() float64 {
	if s.dpiY == 0 {
		return 0
	}
	return float64(s.Height()) / float64(s.dpiY)
}

// NRGBAAt returns the pixel at (x, y). Out-of-bounds positions return the
// zero color.
func (s *RawScan) NRGBAAt(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// Image returns the underlying pixel buffer. The buffer is shared and
// must be treated as read-only; use Crop to obtain pixels that may be
// modified.
func (s *RawScan) Image() *image.NRGBA {
	return s.img
}

// Crop copies the pixels under r into a freshly allocated buffer anchored
// at (0, 0). The scan itself is not modified. It fails when r is empty or
// extends outside the scan bounds.
func (s *RawScan) Crop(r Rect) (*image.NRGBA, error) {
	if !r.IsValid() || !s.Bounds().ContainsRect(r) {
		return nil, &InvalidRegionError{
			Index:  -1,
			Box:    r,
			Bounds: s.Bounds(),
			Reason: "crop outside scan bounds",
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	src := image.Rect(r.X, r.Y, r.Right(), r.Bottom())
	draw.Draw(dst, dst.Bounds(), s.img, src.Min, draw.Src)
	return dst, nil
}

// String describes the scan for logs and error messages.
func (s *RawScan) String() string {
	return fmt.Sprintf("scan %dx%d @ %dx%d dpi", s.Width(), s.Height(), s.dpiX, s.dpiY)
}
