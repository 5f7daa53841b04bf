package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/logger"
)

// ToolDefinition represents a complete tool with its metadata and handler
type ToolDefinition[TInput, TOutput any] struct {
	Tool    *mcp.Tool
	Handler func(ctx context.Context, req *mcp.CallToolRequest, input TInput) (*mcp.CallToolResult, TOutput, error)
}

// NewToolDefinition creates a new tool definition with the given name, description and handler
func NewToolDefinition[TInput, TOutput any](
	name, description string,
	handler func(ctx context.Context, req *mcp.CallToolRequest, input TInput) (*mcp.CallToolResult, TOutput, error),
) *ToolDefinition[TInput, TOutput] {
	return &ToolDefinition[TInput, TOutput]{
		Tool: &mcp.Tool{
			Name:        name,
			Description: description,
		},
		Handler: handler,
	}
}

// Register adds this tool to the MCP server. Every invocation is logged
// with a generated request id for correlation across log lines.
func (td *ToolDefinition[TInput, TOutput]) Register(s *mcp.Server) {
	name := td.Tool.Name
	handler := td.Handler

	wrapped := func(ctx context.Context, req *mcp.CallToolRequest, input TInput) (*mcp.CallToolResult, TOutput, error) {
		requestID := uuid.NewString()
		start := time.Now()
		result, output, err := handler(ctx, req, input)
		logger.LogToolCall(name, requestID, time.Since(start), err)
		return result, output, err
	}

	mcp.AddTool(s, td.Tool, wrapped)
}
