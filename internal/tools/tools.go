package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/pool"
)

// RegisterTools wires every tool to the server with the shared pool
// manager injected via closure.
func RegisterTools(s *mcp.Server, pm *pool.Manager, readOnly bool) {
	// Health Check Tool
	GetHealthCheckTool(pm).Register(s)
	// List Tables Tool
	GetListTablesTool(pm).Register(s)
	// Table Schema Tool
	GetTableSchemaTool(pm).Register(s)
	// Table Data Tool
	GetTableDataTool(pm, readOnly).Register(s)
	// Show Indexes Tool
	GetShowIndexesTool(pm).Register(s)
	// Explain Query Tool
	GetExplainQueryTool(pm, readOnly).Register(s)
	// Get DB Info Tool
	GetDbInfoTool(pm).Register(s)
}
