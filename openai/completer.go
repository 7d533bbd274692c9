// Package openai implements useby.Completer on the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/useby"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the public OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
)

// maxErrorBody caps how much of an error response is kept in the message.
const maxErrorBody = 512

// Ensure Completer implements useby.Completer at compile time.
var _ useby.Completer = (*Completer)(nil)

// Completer sends one system and one user message and returns the reply text.
// Replies are requested in JSON object mode at temperature 0.
type Completer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Option configures a Completer.
type Option func(*Completer)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Completer) {
		c.baseURL = u
	}
}

// WithModel overrides the model name.
func WithModel(m string) Option {
	return func(c *Completer) {
		c.model = m
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Completer) {
		c.client = hc
	}
}

// NewCompleter creates a Completer authenticated with apiKey.
func NewCompleter(apiKey string, opts ...Option) *Completer {
	c := &Completer{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements useby.Completer.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if c.apiKey == "" {
		return "", useby.Errorf(useby.EUNAVAILABLE, "openai api key not configured")
	}

	b, err := json.Marshal(chatRequest{
		Model:          c.model,
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(raw)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", useby.Errorf(useby.EUNAVAILABLE, "openai status %d: %s", resp.StatusCode, msg)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", useby.Errorf(useby.EINTERNAL, "no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
