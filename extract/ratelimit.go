package extract

import (
	"context"

	"github.com/fwojciec/useby"
	"golang.org/x/time/rate"
)

var _ useby.Completer = (*LimitedCompleter)(nil)

// LimitedCompleter throttles calls to a Completer with a token bucket.
type LimitedCompleter struct {
	next    useby.Completer
	limiter *rate.Limiter
}

// NewLimitedCompleter allows rps calls per second with the given burst.
// A burst below 1 is treated as 1.
func NewLimitedCompleter(next useby.Completer, rps float64, burst int) *LimitedCompleter {
	if burst < 1 {
		burst = 1
	}
	return &LimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Complete waits for a token, then delegates. A wait that cannot finish
// before ctx ends yields EUNAVAILABLE.
func (c *LimitedCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", useby.Errorf(useby.EUNAVAILABLE, "llm rate limit: %v", err)
	}
	return c.next.Complete(ctx, systemPrompt, userText)
}
