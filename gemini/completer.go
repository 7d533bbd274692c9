// Package gemini implements useby.Completer on Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/useby"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements useby.Completer at compile time.
var _ useby.Completer = (*Completer)(nil)

// Completer implements useby.Completer using Google Gemini in JSON mode.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends systemPrompt as the system instruction and userText as the
// only user turn.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if c.client == nil {
		return "", useby.Errorf(useby.EUNAVAILABLE, "gemini client not configured")
	}
	if strings.TrimSpace(userText) == "" {
		return "", useby.Errorf(useby.EINVALID, "user text required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: userText}},
		}},
		BuildConfig(systemPrompt),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", useby.Errorf(useby.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
