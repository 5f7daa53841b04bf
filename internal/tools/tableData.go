package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/pool"
)

type TableDataInput struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"SQL query to execute"`
}

type TableDataOutput struct {
	Rows []map[string]interface{} `json:"rows" jsonschema_description:"Result rows keyed by column name"`
}

func GetTableDataTool(pm *pool.Manager, readOnly bool) *ToolDefinition[TableDataInput, TableDataOutput] {
	return NewToolDefinition[TableDataInput, TableDataOutput](
		"get_table_data",
		"Execute a SQL query and return the full result set.",
		func(ctx context.Context, req *mcp.CallToolRequest, input TableDataInput) (*mcp.CallToolResult, TableDataOutput, error) {
			return tableDataHandler(ctx, req, input, pm, readOnly)
		},
	)
}

// tableDataHandler executes the query verbatim. SQL text is a documented
// trust boundary; only read-only mode narrows it to SELECT statements.
func tableDataHandler(ctx context.Context, req *mcp.CallToolRequest, input TableDataInput, pm *pool.Manager, readOnly bool) (*mcp.CallToolResult, TableDataOutput, error) {
	if readOnly && !isSelect(input.Query) {
		return nil, TableDataOutput{}, fmt.Errorf("You can only perform SELECT queries")
	}

	db, err := pm.Get(ctx)
	if err != nil {
		return nil, TableDataOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	logger.Info("Executing query", map[string]interface{}{"query": common.TruncateSQL(input.Query)})

	rows, err := db.QueryContext(ctx, input.Query)
	if err != nil {
		logger.LogDatabaseOperation("QUERY", input.Query, 0, err)
		return nil, TableDataOutput{}, common.NewQueryError(input.Query, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, TableDataOutput{}, err
	}

	logger.LogDatabaseOperation("QUERY", input.Query, int64(len(results)), nil)

	output := TableDataOutput{Rows: results}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, TableDataOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "select")
}
