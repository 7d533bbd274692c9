package mock

import (
	"context"

	"github.com/fwojciec/useby"
)

var _ useby.DateExtractor = (*DateExtractor)(nil)

// DateExtractor is a mock implementation of useby.DateExtractor.
type DateExtractor struct {
	ExtractFn   func(ctx context.Context, ocrText string) useby.ExtractionResult
	StructureFn func(ctx context.Context, ocrText string) useby.Fields
}

func (e *DateExtractor) Extract(ctx context.Context, ocrText string) useby.ExtractionResult {
	return e.ExtractFn(ctx, ocrText)
}

func (e *DateExtractor) Structure(ctx context.Context, ocrText string) useby.Fields {
	return e.StructureFn(ctx, ocrText)
}
