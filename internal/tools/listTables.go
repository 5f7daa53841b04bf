package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/pool"
)

type ListTablesInput struct{}

type TableName struct {
	Tablename string `json:"tablename" jsonschema_description:"Table name"`
}

type ListTablesOutput struct {
	Tables []TableName `json:"tables" jsonschema_description:"All tables in the configured database"`
}

func GetListTablesTool(pm *pool.Manager) *ToolDefinition[ListTablesInput, ListTablesOutput] {
	return NewToolDefinition[ListTablesInput, ListTablesOutput](
		"list_tables",
		"List all tables in the database.",
		func(ctx context.Context, req *mcp.CallToolRequest, input ListTablesInput) (*mcp.CallToolResult, ListTablesOutput, error) {
			return listTablesHandler(ctx, req, input, pm)
		},
	)
}

func listTablesHandler(ctx context.Context, req *mcp.CallToolRequest, input ListTablesInput, pm *pool.Manager) (*mcp.CallToolResult, ListTablesOutput, error) {
	db, err := pm.Get(ctx)
	if err != nil {
		return nil, ListTablesOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	const query = "SHOW TABLES"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		logger.LogDatabaseOperation("SHOW_TABLES", query, 0, err)
		return nil, ListTablesOutput{}, common.NewQueryError(query, err)
	}
	defer rows.Close()

	// SHOW TABLES returns a single column named after the database.
	tables := []TableName{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, ListTablesOutput{}, fmt.Errorf("scan error: %v", err)
		}
		tables = append(tables, TableName{Tablename: name})
	}
	if err = rows.Err(); err != nil {
		return nil, ListTablesOutput{}, fmt.Errorf("rows iteration error: %v", err)
	}

	logger.LogDatabaseOperation("SHOW_TABLES", query, int64(len(tables)), nil)

	output := ListTablesOutput{Tables: tables}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, ListTablesOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
