// Package slog provides logging decorators for the useby provider interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/useby"
)

// Ensure LoggingRecognizer implements useby.TextRecognizer.
var _ useby.TextRecognizer = (*LoggingRecognizer)(nil)

// LoggingRecognizer wraps a TextRecognizer with logging.
type LoggingRecognizer struct {
	next   useby.TextRecognizer
	logger *slog.Logger
}

// NewLoggingRecognizer creates a new LoggingRecognizer.
func NewLoggingRecognizer(next useby.TextRecognizer, logger *slog.Logger) *LoggingRecognizer {
	return &LoggingRecognizer{next: next, logger: logger}
}

// RecognizeText delegates to the wrapped recognizer and logs the operation.
func (r *LoggingRecognizer) RecognizeText(ctx context.Context, image []byte) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("ocr",
			"image_bytes", len(image),
			"chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RecognizeText(ctx, image)
}
