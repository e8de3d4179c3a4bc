// Package tools defines the MCP tools exposed by the Medicare coverage
// checker and the server shell that registers them.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool pairs an MCP tool definition with the handler invoked when a client
// calls it.
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
