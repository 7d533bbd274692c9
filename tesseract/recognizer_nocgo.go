//go:build !cgo

package tesseract

import (
	"context"

	"github.com/fwojciec/useby"
)

var _ useby.TextRecognizer = (*Recognizer)(nil)

// Recognizer is unavailable in builds without cgo.
type Recognizer struct {
	language string
}

// NewRecognizer creates a Recognizer that always fails.
func NewRecognizer(language string) *Recognizer {
	if language == "" {
		language = DefaultLanguage
	}
	return &Recognizer{language: language}
}

// RecognizeText always returns EUNAVAILABLE.
func (r *Recognizer) RecognizeText(context.Context, []byte) (string, error) {
	return "", useby.Errorf(useby.EUNAVAILABLE, "tesseract requires a cgo build")
}

// Available reports whether this build can run Tesseract.
func Available() bool { return false }
