//go:build !ocr

// Package caption suggests photo titles from text visible in a cropped
// photo (a handwritten label, a sign, a date stamp).
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All operations return ErrNotEnabled. To enable title suggestion,
// rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package caption

import (
	"errors"

	"github.com/rinehartj/scansplit/model"
)

// ErrNotEnabled is returned when title suggestion is used but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("caption: OCR support not enabled; rebuild with -tags ocr")

// Suggester is a stub that returns ErrNotEnabled for all operations.
type Suggester struct{}

// NewSuggester returns an error indicating OCR support is not enabled.
func NewSuggester() (*Suggester, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op for the stub suggester. It is safe to call on a nil
// suggester.
func (s *Suggester) Close() error {
	return nil
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (s *Suggester) SetLanguage(lang string) error {
	return ErrNotEnabled
}

// Suggest returns an error indicating OCR support is not enabled.
func (s *Suggester) Suggest(img *model.CroppedImage) (string, error) {
	return "", ErrNotEnabled
}
