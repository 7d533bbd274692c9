package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/useby"
	main "github.com/fwojciec/useby/cmd/useby"
	"github.com/fwojciec/useby/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports per-file failures", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "label.jpg")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Recognizer: &mock.TextRecognizer{
				RecognizeTextFn: func(ctx context.Context, image []byte) (string, error) {
					return "", useby.Errorf(useby.EUNAVAILABLE, "vision down")
				},
			},
		}

		cmd := &main.ScanCmd{Files: []string{path}, Concurrency: 1, RegexOnly: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), `"error":"vision down"`)
	})

	t.Run("requires recognizer", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		err := (&main.ScanCmd{Files: []string{"a.jpg"}}).Run(deps)

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Hint:")
	})
}

func TestExtractCmd_Run_UsesExtractor(t *testing.T) {
	t.Parallel()

	var got string
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdin:  bytes.NewBufferString("  some label  "),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Extractor: &mock.DateExtractor{
			ExtractFn: func(ctx context.Context, ocrText string) useby.ExtractionResult {
				got = ocrText
				return useby.ExtractionResult{ExpiryISO: "2030-01-01", Note: "llm"}
			},
		},
	}

	err := (&main.ExtractCmd{}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "some label", got)
	assert.JSONEq(t, `{"productionDateISO":null,"expiryDateISO":"2030-01-01","bestBeforeDateISO":null,"notes":"llm"}`, stdout.String())
}

func TestNameCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires labeler", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		err := (&main.NameCmd{File: "x.jpg"}).Run(deps)

		assert.Equal(t, useby.EUNAVAILABLE, useby.ErrorCode(err))
	})

	t.Run("no labels is not found", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "blank.jpg")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Labeler: &mock.ImageLabeler{
				LabelImageFn: func(ctx context.Context, image []byte) (*useby.ImageLabels, error) {
					return &useby.ImageLabels{}, nil
				},
			},
		}

		err := (&main.NameCmd{File: path}).Run(deps)

		assert.Equal(t, useby.ENOTFOUND, useby.ErrorCode(err))
	})
}

func TestServeCmd_Run_LogsUploadsDir(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := filepath.Join(t.TempDir(), "kept")
	logs := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    ctx,
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Logger: slog.New(slog.NewTextHandler(logs, nil)),
	}

	err := (&main.ServeCmd{Port: 0, KeepUploads: true, UploadsDir: dir}).Run(deps)

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "keeping uploads")
	assert.Contains(t, logs.String(), "dir="+dir)
	assert.Contains(t, logs.String(), "shutting down")
}
