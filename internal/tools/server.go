package tools

import (
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "Medicare Coverage Checker"

// Server is the MCP server shell with the checker's tools registered
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server and registers the given tools
func NewServer(version string, toolset ...Tool) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, tool := range toolset {
		mcpServer.AddTool(tool.Handle(), tool.Handler)
	}

	return &Server{mcpServer: mcpServer}
}

// ServeStdio runs the server over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
