package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/useby"
	"github.com/fwojciec/useby/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractor(calls *int) *mock.DateExtractor {
	return &mock.DateExtractor{
		ExtractFn: func(ctx context.Context, ocrText string) useby.ExtractionResult {
			*calls++
			return useby.ExtractDates(ocrText)
		},
	}
}

func TestNewServer_RequiresExtractor(t *testing.T) {
	t.Parallel()

	_, err := NewServer(nil, nil)

	assert.Equal(t, useby.EINVALID, useby.ErrorCode(err))
}

func TestServer_handleExtractDates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("uses extractor", func(t *testing.T) {
		t.Parallel()

		var calls int
		server, err := NewServer(newExtractor(&calls), nil)
		require.NoError(t, err)

		_, out, err := server.handleExtractDates(ctx, nil, ExtractInput{Text: "Best by Feb 2030"})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, DatesOutput{
			ExpiryDate:     "2030-02-01",
			BestBeforeDate: "2030-02-01",
			Notes:          useby.NoteMonthName,
		}, out)
	})

	t.Run("regex only skips extractor", func(t *testing.T) {
		t.Parallel()

		var calls int
		server, err := NewServer(newExtractor(&calls), nil)
		require.NoError(t, err)

		_, out, err := server.handleExtractDates(ctx, nil, ExtractInput{Text: "2O24-O1-15", RegexOnly: true})

		require.NoError(t, err)
		assert.Equal(t, 0, calls)
		assert.Equal(t, "2024-01-15", out.ExpiryDate)
	})
}

func TestServer_handleScanLabel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recognizes and extracts", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "label.jpg")
		require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0644))

		var gotImage []byte
		recognizer := &mock.TextRecognizer{
			RecognizeTextFn: func(ctx context.Context, image []byte) (string, error) {
				gotImage = image
				return "EXP 31.12.2026", nil
			},
		}
		var calls int
		server, err := NewServer(newExtractor(&calls), recognizer)
		require.NoError(t, err)

		_, out, err := server.handleScanLabel(ctx, nil, ScanInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), gotImage)
		assert.Equal(t, "2026-12-31", out.ExpiryDate)
		assert.Equal(t, "EXP 31.12.2026", out.OCRText)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		var calls int
		server, err := NewServer(newExtractor(&calls), &mock.TextRecognizer{})
		require.NoError(t, err)

		_, _, err = server.handleScanLabel(ctx, nil, ScanInput{Path: filepath.Join(t.TempDir(), "nope.jpg")})

		require.Error(t, err)
		assert.Equal(t, 0, calls)
	})

	t.Run("no recognizer is unavailable", func(t *testing.T) {
		t.Parallel()

		var calls int
		server, err := NewServer(newExtractor(&calls), nil)
		require.NoError(t, err)

		_, _, err = server.handleScanLabel(ctx, nil, ScanInput{Path: "label.jpg"})

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
	})

	t.Run("empty path is invalid", func(t *testing.T) {
		t.Parallel()

		var calls int
		server, err := NewServer(newExtractor(&calls), nil)
		require.NoError(t, err)

		_, _, err = server.handleScanLabel(ctx, nil, ScanInput{})

		assert.Equal(t, useby.EINVALID, useby.ErrorCode(err))
	})
}

func TestServer_handleNormalizeText(t *testing.T) {
	t.Parallel()

	var calls int
	server, err := NewServer(newExtractor(&calls), nil)
	require.NoError(t, err)

	_, out, err := server.handleNormalizeText(context.Background(), nil, NormalizeInput{Text: "  EXP  2O24–O1–15 "})

	require.NoError(t, err)
	assert.Equal(t, "EXP 2024-01-15", out.Text)
}
