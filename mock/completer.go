package mock

import (
	"context"

	"github.com/fwojciec/useby"
)

var _ useby.Completer = (*Completer)(nil)

// Completer is a mock implementation of useby.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, systemPrompt, userText string) (string, error)
}

func (c *Completer) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	return c.CompleteFn(ctx, systemPrompt, userText)
}
