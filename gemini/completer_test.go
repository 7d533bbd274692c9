package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/useby"
	"github.com/fwojciec/useby/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, srv *httptest.Server) *genai.Client {
	t.Helper()

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	require.NoError(t, err)
	return client
}

func TestCompleter_Complete_ReturnsReplyText(t *testing.T) {
	t.Parallel()

	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"expiry_date\":\"2027-01-01\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := gemini.NewCompleter(newTestClient(t, srv), "")

	reply, err := c.Complete(context.Background(), "return JSON", "OCR text:\n\nbest by soon")

	require.NoError(t, err)
	assert.JSONEq(t, `{"expiry_date":"2027-01-01"}`, reply)
	assert.True(t, strings.HasSuffix(path, "models/"+gemini.DefaultModel+":generateContent"), path)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "return JSON")
	assert.Contains(t, string(raw), "best by soon")
	assert.Contains(t, string(raw), "application/json")
}

func TestCompleter_Complete_PropagatesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	c := gemini.NewCompleter(newTestClient(t, srv), "gemini-test")

	_, err := c.Complete(context.Background(), "s", "u")

	require.Error(t, err)
}

func TestCompleter_Complete_ReturnsErrorWhenClientNil(t *testing.T) {
	t.Parallel()

	c := gemini.NewCompleter(nil, "")

	_, err := c.Complete(context.Background(), "s", "u")

	assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
}

func TestCompleter_Complete_ReturnsErrorWhenTextEmpty(t *testing.T) {
	t.Parallel()

	c := gemini.NewCompleter(&genai.Client{}, "")

	_, err := c.Complete(context.Background(), "s", "  ")

	assert.Equal(t, useby.EINVALID, useby.ErrorCode(err))
	assert.Contains(t, useby.ErrorMessage(err), "user text required")
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	cfg := gemini.BuildConfig("sys")

	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.Zero(t, *cfg.Temperature)
}
