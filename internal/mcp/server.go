// Package mcp exposes the assistant to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/learnova/internal/assistant"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes study tools.
type Server struct {
	assistant *assistant.Service
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc *assistant.Service) *Server {
	s := &Server{assistant: svc}

	s.mcp = server.NewMCPServer(
		"learnova",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(explainTool, s.handleExplain)
	s.mcp.AddTool(renderMarkdownTool, s.handleRenderMarkdown)
	s.mcp.AddTool(listCatalogTool, s.handleListCatalog)
	s.mcp.AddTool(exportPDFTool, s.handleExportPDF)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
