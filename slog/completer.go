package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/useby"
)

// Ensure LoggingCompleter implements useby.Completer.
var _ useby.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging. Prompt and reply text
// are not logged, only their sizes.
type LoggingCompleter struct {
	next   useby.Completer
	name   string
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter. The provider name is
// attached to every record.
func NewLoggingCompleter(next useby.Completer, provider string, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, name: provider, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, systemPrompt, userText string) (reply string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "llm completion",
			"provider", c.name,
			"prompt_chars", len(userText),
			"reply_chars", len(reply),
			"duration", time.Since(begin),
			"code", useby.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, systemPrompt, userText)
}
