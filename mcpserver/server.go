package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	digest "github.com/chatpulse/digestbot/internal/mcp"
)

// Version is reported to MCP clients during initialization
const Version = "v1.0.0"

// DigestMCPServer exposes the digestbot API as MCP tools
type DigestMCPServer struct {
	server  *mcp.Server
	handler *digest.Handler
}

// NewServer creates a new MCP server backed by handler
func NewServer(handler *digest.Handler) *DigestMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "digestbot-tools",
		Version: Version,
	}, nil)

	s := &DigestMCPServer{
		server:  server,
		handler: handler,
	}
	s.registerTools()
	return s
}

// registerTools registers all digestbot MCP tools
func (s *DigestMCPServer) registerTools() {
	h := s.handler

	// Monitor targets
	mcp.AddTool(s.server, toolDef(digest.ToolListTargets), adapt(h.ListTargets))
	mcp.AddTool(s.server, toolDef(digest.ToolCheckTarget), adapt(h.CheckTarget))
	mcp.AddTool(s.server, toolDef(digest.ToolResendLast), adapt(h.ResendLast))
	mcp.AddTool(s.server, toolDef(digest.ToolSetTargetActive), adapt(h.SetTargetActive))

	// Summaries
	mcp.AddTool(s.server, toolDef(digest.ToolTriggerSummary), adapt(h.TriggerSummary))
	mcp.AddTool(s.server, toolDef(digest.ToolListSummaries), adapt(h.ListSummaries))

	// Usage and logs
	mcp.AddTool(s.server, toolDef(digest.ToolListUsage), adapt(h.ListUsage))
	mcp.AddTool(s.server, toolDef(digest.ToolRecentLogs), adapt(h.RecentLogs))
}

func toolDef(name string) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: digest.ToolDescriptions[name],
	}
}

// adapt turns a plain handler method into an SDK tool handler.
// Errors become tool results with IsError set.
func adapt[In, Out any](fn func(context.Context, In) (Out, error)) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		return nil, out, err
	}
}

// Run starts the MCP server with stdio transport
func (s *DigestMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// GetServer returns the underlying MCP server
func (s *DigestMCPServer) GetServer() *mcp.Server {
	return s.server
}
