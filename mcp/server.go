// Package mcp exposes date extraction as MCP tools over stdio.
package mcp

import (
	"context"

	"github.com/fwojciec/useby"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for useby.
type Server struct {
	extractor  useby.DateExtractor
	recognizer useby.TextRecognizer
	server     *mcp.Server
}

// NewServer creates a new MCP server. The recognizer is optional; without
// it the scan_label tool reports an error.
func NewServer(extractor useby.DateExtractor, recognizer useby.TextRecognizer) (*Server, error) {
	if extractor == nil {
		return nil, useby.Errorf(useby.EINVALID, "mcp: date extractor is required")
	}

	s := &Server{
		extractor:  extractor,
		recognizer: recognizer,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "useby",
			Version: Version,
		}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
