package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/useby"
)

// Ensure LoggingLabeler implements useby.ImageLabeler.
var _ useby.ImageLabeler = (*LoggingLabeler)(nil)

// LoggingLabeler wraps an ImageLabeler with logging.
type LoggingLabeler struct {
	next   useby.ImageLabeler
	logger *slog.Logger
}

// NewLoggingLabeler creates a new LoggingLabeler.
func NewLoggingLabeler(next useby.ImageLabeler, logger *slog.Logger) *LoggingLabeler {
	return &LoggingLabeler{next: next, logger: logger}
}

// LabelImage delegates to the wrapped labeler and logs the operation.
func (l *LoggingLabeler) LabelImage(ctx context.Context, image []byte) (labels *useby.ImageLabels, err error) {
	defer func(begin time.Time) {
		var nLabels, nObjects int
		if labels != nil {
			nLabels, nObjects = len(labels.Labels), len(labels.Objects)
		}
		l.logger.Info("label image",
			"image_bytes", len(image),
			"labels", nLabels,
			"objects", nObjects,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LabelImage(ctx, image)
}
