package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/useby/fs"
	usehttp "github.com/fwojciec/useby/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := usehttp.NewServer()
	s.Addr = fmt.Sprintf(":%d", c.Port)
	s.AllowedOrigins = trimAll(c.AllowedOrigins)
	s.Recognizer = deps.Recognizer
	s.Labeler = deps.Labeler
	s.Extractor = deps.Extractor
	s.Logger = deps.Logger

	if c.KeepUploads {
		dir := c.UploadsDir
		if dir == "" {
			dir = defaultUploadsDir()
		}
		uploads := fs.NewUploadStore(dir)
		s.Uploads = uploads
		deps.Logger.Info("keeping uploads", "dir", uploads.Dir())
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	deps.Logger.Info("server running", "url", s.URL())

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return s.Close()
}

// defaultUploadsDir is /tmp/uploads on Cloud Run and ./uploads elsewhere.
func defaultUploadsDir() string {
	if os.Getenv("K_SERVICE") != "" {
		return filepath.Join(os.TempDir(), "uploads")
	}
	return "uploads"
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
