// Package mcp exposes the flashcard pipeline as MCP tools over stdio, so an
// agent can mint cards for words it encounters mid-conversation.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/repository"
	"github.com/eslsoft/ankigen/internal/usecase"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"card_create": {
		def:     createToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"card_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
}

// NewServer creates an MCP server with the card tools registered.
func NewServer(publisher *usecase.Publisher, runs repository.RunRepository, logger logrus.FieldLogger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ankigen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(publisher, runs, logger)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server on stdio and blocks until the client hangs up.
func Run(publisher *usecase.Publisher, runs repository.RunRepository, logger logrus.FieldLogger, version string) error {
	return server.ServeStdio(NewServer(publisher, runs, logger, version))
}
