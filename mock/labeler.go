package mock

import (
	"context"

	"github.com/fwojciec/useby"
)

var _ useby.ImageLabeler = (*ImageLabeler)(nil)

// ImageLabeler is a mock implementation of useby.ImageLabeler.
type ImageLabeler struct {
	LabelImageFn func(ctx context.Context, image []byte) (*useby.ImageLabels, error)
}

func (l *ImageLabeler) LabelImage(ctx context.Context, image []byte) (*useby.ImageLabels, error) {
	return l.LabelImageFn(ctx, image)
}
