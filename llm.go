package useby

import "context"

// Completer sends a prompt to a language model.
type Completer interface {
	// Complete returns the model's reply to userText under systemPrompt.
	// Implementations request a JSON object reply and must honor ctx
	// cancellation, which is how callers bound the call's duration.
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}
