package model

import (
	"image/color"
	"testing"
	"time"
)

func TestNewCroppedImage(t *testing.T) {
	scan := NewRawScan(solidImage(100, 80, color.NRGBA{R: 9, G: 9, B: 9, A: 255}), 300, 300)
	region := Region{Box: NewRect(10, 10, 40, 30), Source: scan}

	img, err := NewCroppedImage(region, 0)
	if err != nil {
		t.Fatalf("NewCroppedImage failed: %v", err)
	}

	if img.Width() != 40 || img.Height() != 30 {
		t.Errorf("Expected 40x30, got %dx%d", img.Width(), img.Height())
	}
	if img.Rotation != Rotate0 {
		t.Errorf("Expected initial rotation 0°, got %v", img.Rotation)
	}
	if img.Corrected {
		t.Error("Expected new image to be uncorrected")
	}
	if img.Meta != nil {
		t.Error("Expected new image to have no metadata")
	}
}

func TestNewCroppedImageMargin(t *testing.T) {
	scan := NewRawScan(solidImage(100, 80, color.NRGBA{A: 255}), 300, 300)
	region := Region{Box: NewRect(10, 10, 40, 30), Source: scan}

	img, err := NewCroppedImage(region, 5)
	if err != nil {
		t.Fatalf("NewCroppedImage failed: %v", err)
	}
	if img.Width() != 30 || img.Height() != 20 {
		t.Errorf("Expected 30x20 after margin, got %dx%d", img.Width(), img.Height())
	}

	// A margin that would consume the region is ignored.
	img, err = NewCroppedImage(region, 20)
	if err != nil {
		t.Fatalf("NewCroppedImage failed: %v", err)
	}
	if img.Width() != 40 || img.Height() != 30 {
		t.Errorf("Expected full 40x30 when margin is too large, got %dx%d", img.Width(), img.Height())
	}
}

func TestCroppedImageRelease(t *testing.T) {
	scan := NewRawScan(solidImage(20, 20, color.NRGBA{A: 255}), 300, 300)
	img, err := NewCroppedImage(Region{Box: NewRect(0, 0, 20, 20), Source: scan}, 0)
	if err != nil {
		t.Fatalf("NewCroppedImage failed: %v", err)
	}

	img.Meta = &Metadata{Timestamp: time.Now(), Title: "Holiday"}
	img.Release()
	if img.Img != nil {
		t.Error("Expected buffer to be nil after Release")
	}
	if img.Meta == nil {
		t.Error("Expected metadata to survive Release")
	}
}
