package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the RAG backend as tools.
type Server struct {
	rag      *apiclient.RAG
	sessions *session.Manager
	renderer *render.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. sessions is nil for backends without
// sessions.
func NewServer(rag *apiclient.RAG, sessions *session.Manager, renderer *render.Renderer) *Server {
	s := &Server{
		rag:      rag,
		sessions: sessions,
		renderer: renderer,
	}

	s.mcp = server.NewMCPServer(
		"ragui",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchSolutionsTool, s.handleSearchSolutions)
	s.mcp.AddTool(generatePOCTool, s.handleGeneratePOC)
	s.mcp.AddTool(pocHistoryTool, s.handlePOCHistory)
	s.mcp.AddTool(systemStatusTool, s.handleSystemStatus)
	if s.sessions != nil {
		s.mcp.AddTool(exportSessionTool, s.handleExportSession)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
