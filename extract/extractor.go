// Package extract orchestrates date extraction from OCR text: the regex
// grammar runs first, a time-boxed LLM call runs on a miss, and the grammar
// backfills whatever the model left empty.
package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/useby"
)

// Ensure Extractor implements useby.DateExtractor at compile time.
var _ useby.DateExtractor = (*Extractor)(nil)

// DefaultTimeout bounds a single LLM call.
const DefaultTimeout = 3 * time.Second

// Extractor combines the regex grammar with an optional LLM.
type Extractor struct {
	completer useby.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the LLM deadline. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithLogger sets the logger used to report LLM fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// NewExtractor creates an Extractor. A nil completer runs regex only.
func NewExtractor(completer useby.Completer, opts ...Option) *Extractor {
	e := &Extractor{
		completer: completer,
		timeout:   DefaultTimeout,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the dates found in ocrText. The LLM is consulted only when
// the grammar finds nothing, and any LLM failure degrades to the grammar
// result.
func (e *Extractor) Extract(ctx context.Context, ocrText string) useby.ExtractionResult {
	if strings.TrimSpace(ocrText) == "" {
		return useby.ExtractionResult{}
	}
	rx := useby.ExtractDates(ocrText)
	if rx.HasDate() || e.completer == nil {
		return rx
	}
	return e.Structure(ctx, ocrText).Result()
}

// Structure asks the LLM for all fields, including the product name, and
// fills any date the model left empty from the grammar.
func (e *Extractor) Structure(ctx context.Context, ocrText string) useby.Fields {
	if strings.TrimSpace(ocrText) == "" {
		return useby.Fields{}
	}
	rx := useby.ExtractDates(ocrText)
	if e.completer == nil {
		return useby.FieldsFromResult(rx)
	}

	start := time.Now()
	fields, err := e.ask(ctx, ocrText)
	if err != nil {
		e.logger.Warn("llm fallback",
			"reason", fallbackReason(err),
			"error", err,
			"duration", time.Since(start))
		return useby.FieldsFromResult(rx)
	}
	e.logger.Debug("llm reply", "duration", time.Since(start))
	return fields.Backfill(rx)
}

type completion struct {
	text string
	err  error
}

// ask runs the completer against the deadline. The call keeps running in
// the background if it ignores cancellation; its result is discarded.
func (e *Extractor) ask(ctx context.Context, ocrText string) (useby.Fields, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan completion, 1)
	go func() {
		text, err := e.completer.Complete(ctx, SystemPrompt, BuildUserPrompt(ocrText))
		ch <- completion{text: text, err: err}
	}()

	var c completion
	select {
	case <-ctx.Done():
		return useby.Fields{}, e.contextError(ctx)
	case c = <-ch:
	}

	if c.err != nil {
		if errors.Is(c.err, context.DeadlineExceeded) {
			return useby.Fields{}, e.contextError(ctx)
		}
		return useby.Fields{}, c.err
	}

	fields, dropped, err := ParseReply(c.text)
	if len(dropped) > 0 {
		e.logger.Warn("llm reply sanitized", "dropped", dropped)
	}
	if err != nil {
		return useby.Fields{}, err
	}
	return fields, nil
}

func (e *Extractor) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return useby.Errorf(useby.ETIMEOUT, "llm call exceeded %s", e.timeout)
	}
	return ctx.Err()
}

func fallbackReason(err error) string {
	switch useby.ErrorCode(err) {
	case useby.ETIMEOUT:
		return "timeout"
	case useby.EINVALID:
		return "malformed"
	default:
		return "error"
	}
}
