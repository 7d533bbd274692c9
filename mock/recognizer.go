package mock

import (
	"context"

	"github.com/fwojciec/useby"
)

var _ useby.TextRecognizer = (*TextRecognizer)(nil)

// TextRecognizer is a mock implementation of useby.TextRecognizer.
type TextRecognizer struct {
	RecognizeTextFn func(ctx context.Context, image []byte) (string, error)
}

func (r *TextRecognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	return r.RecognizeTextFn(ctx, image)
}
