package main

import (
	"github.com/fwojciec/useby/mcp"
)

// Run executes the mcp command.
func (c *MCPCmd) Run(deps *Dependencies) error {
	server, err := mcp.NewServer(deps.Extractor, deps.Recognizer)
	if err != nil {
		return err
	}
	deps.Logger.Info("mcp server listening on stdio", "version", mcp.Version)
	return server.Run(deps.Ctx)
}
