//go:build cgo

package tesseract

import (
	"context"
	"strings"

	"github.com/fwojciec/useby"
	"github.com/otiai10/gosseract/v2"
)

// Ensure Recognizer implements useby.TextRecognizer at compile time.
var _ useby.TextRecognizer = (*Recognizer)(nil)

// Recognizer runs Tesseract on preprocessed label images. A new gosseract
// client is created per call, so a Recognizer is safe for concurrent use.
type Recognizer struct {
	language string
}

// NewRecognizer creates a Recognizer. An empty language selects DefaultLanguage.
func NewRecognizer(language string) *Recognizer {
	if language == "" {
		language = DefaultLanguage
	}
	return &Recognizer{language: language}
}

// RecognizeText implements useby.TextRecognizer.
func (r *Recognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	png, err := Preprocess(image)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", useby.Errorf(useby.EUNAVAILABLE, "tesseract language %q: %v", r.language, err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", useby.Errorf(useby.EINVALID, "tesseract image: %v", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", useby.Errorf(useby.EUNAVAILABLE, "tesseract: %v", err)
	}
	return strings.TrimSpace(text), nil
}

// Available reports whether this build can run Tesseract.
func Available() bool { return true }
