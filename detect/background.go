package detect

import (
	"context"
	"image"
	"image/color"

	"github.com/rinehartj/scansplit/model"
)

// ctx cancellation is polled once per this many mask rows.
const rowChunk = 64

// bandThickness computes the border band thickness in pixels from the
// configuration, bounded so the bands can never cover the whole scan.
func bandThickness(scan *model.RawScan, config Config) int {
	short := scan.Width()
	if scan.Height() < short {
		short = scan.Height()
	}

	band := int(config.BandFraction * float64(short))
	if band < config.MinBand {
		band = config.MinBand
	}
	if max := short / 4; band > max && max > 0 {
		band = max
	}
	if band < 1 {
		band = 1
	}
	return band
}

// sampleBackground estimates the scan-bed color by averaging the pixels
// in the four border bands. Photos are placed away from the very edge of
// the bed often enough that the bands are dominated by lid color, whether
// that lid is near-white or near-black.
func sampleBackground(scan *model.RawScan, band int) color.NRGBA {
	w, h := scan.Width(), scan.Height()

	var sumR, sumG, sumB, count uint64
	add := func(x, y int) {
		c := scan.NRGBAAt(x, y)
		sumR += uint64(c.R)
		sumG += uint64(c.G)
		sumB += uint64(c.B)
		count++
	}

	// Top and bottom bands span the full width; left and right bands
	// cover only the rows between them so no pixel is counted twice.
	for y := 0; y < band && y < h; y++ {
		for x := 0; x < w; x++ {
			add(x, y)
		}
	}
	for y := h - band; y < h; y++ {
		if y < band {
			continue
		}
		for x := 0; x < w; x++ {
			add(x, y)
		}
	}
	for y := band; y < h-band; y++ {
		for x := 0; x < band && x < w; x++ {
			add(x, y)
		}
		for x := w - band; x < w; x++ {
			if x < band {
				continue
			}
			add(x, y)
		}
	}

	if count == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
		A: 255,
	}
}

// distanceImage renders each pixel's maximum per-channel distance from
// the background color as a grayscale image. Using the max channel keeps
// a red photo on a white bed as separable as a gray one.
func distanceImage(ctx context.Context, scan *model.RawScan, background color.NRGBA) (*image.Gray, error) {
	w, h := scan.Width(), scan.Height()
	dist := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		if y%rowChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for x := 0; x < w; x++ {
			c := scan.NRGBAAt(x, y)
			d := channelDistance(c.R, background.R)
			if g := channelDistance(c.G, background.G); g > d {
				d = g
			}
			if b := channelDistance(c.B, background.B); b > d {
				d = b
			}
			dist.SetGray(x, y, color.Gray{Y: d})
		}
	}
	return dist, nil
}

func channelDistance(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
