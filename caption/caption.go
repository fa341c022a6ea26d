//go:build ocr

// Package caption suggests photo titles from text visible in a cropped
// photo (a handwritten label, a sign, a date stamp).
//
// It wraps the Tesseract OCR engine via gosseract and requires Tesseract
// to be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// The package compiles in only under the "ocr" build tag; the default
// build uses a stub whose Suggest returns ErrNotEnabled.
package caption

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/rinehartj/scansplit/model"
)

// Suggester proposes titles for cropped photos. Close it when done to
// release the OCR engine.
type Suggester struct {
	client *gosseract.Client
}

// NewSuggester creates a suggester with the default language ("eng").
func NewSuggester() (*Suggester, error) {
	return &Suggester{client: gosseract.NewClient()}, nil
}

// Close releases the OCR engine.
func (s *Suggester) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// SetLanguage sets the recognition language(s), "+"-separated for
// multiple (e.g. "eng+fin").
func (s *Suggester) SetLanguage(lang string) error {
	return s.client.SetLanguage(lang)
}

// Suggest runs OCR over img and returns the first line of recognized
// text as a title candidate. An empty string with nil error means the
// photo held no legible text.
func (s *Suggester) Suggest(img *model.CroppedImage) (string, error) {
	if img.Img == nil {
		return "", fmt.Errorf("caption: image buffer already released")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Img); err != nil {
		return "", fmt.Errorf("caption: encode image: %w", err)
	}
	if err := s.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("caption: set image: %w", err)
	}

	text, err := s.client.Text()
	if err != nil {
		return "", fmt.Errorf("caption: recognize: %w", err)
	}
	return firstLine(text), nil
}

// firstLine returns the first non-empty line of text, trimmed.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
