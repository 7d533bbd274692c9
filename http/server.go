// Package http serves the label analysis API over HTTP using gin.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/useby"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies, including base64 image payloads.
const MaxBodyBytes = 20 << 20

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP API. Services are assigned before Open; a nil
// Recognizer or Labeler makes the corresponding routes fail, and a nil
// Uploads disables upload retention.
type Server struct {
	ln     net.Listener
	server *http.Server
	engine *gin.Engine

	// Addr is the bind address, e.g. ":4000".
	Addr string

	// AllowedOrigins lists CORS origins. "*" allows every origin.
	AllowedOrigins []string

	Recognizer useby.TextRecognizer
	Labeler    useby.ImageLabeler
	Extractor  useby.DateExtractor
	Uploads    useby.UploadStore
	Logger     *slog.Logger
}

// NewServer returns a Server with default settings.
func NewServer() *Server {
	return &Server{
		Addr:           ":4000",
		AllowedOrigins: []string{"*"},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Handler builds the router. It is called by Open and by tests.
func (s *Server) Handler() http.Handler {
	if s.engine != nil {
		return s.engine
	}

	r := gin.New()
	r.MaxMultipartMemory = MaxBodyBytes
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.Logger))
	r.Use(cors(s.AllowedOrigins))
	r.Use(limitBody(MaxBodyBytes))

	api := r.Group("/api")
	api.GET("/ping", s.handlePing)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/analyze-name", s.handleAnalyzeName)
	api.POST("/extract-from-text", s.handleExtractFromText)

	s.engine = r
	return r
}

// Open binds the listener and starts serving in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
