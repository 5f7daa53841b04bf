package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/pool"
)

type GetDBInfoInput struct{}

type GetDBInfoOutput struct {
	DatabaseName string `json:"database_name" jsonschema_description:"Name of the current database"`
	Version      string `json:"version" jsonschema_description:"MySQL server version"`
	TableCount   int    `json:"table_count" jsonschema_description:"Number of tables in the current database"`
}

func GetDbInfoTool(pm *pool.Manager) *ToolDefinition[GetDBInfoInput, GetDBInfoOutput] {
	return NewToolDefinition[GetDBInfoInput, GetDBInfoOutput](
		"get_db_info",
		"Get general database information and statistics.",
		func(ctx context.Context, req *mcp.CallToolRequest, input GetDBInfoInput) (*mcp.CallToolResult, GetDBInfoOutput, error) {
			return getDBInfoHandler(ctx, req, input, pm)
		},
	)
}

func getDBInfoHandler(ctx context.Context, req *mcp.CallToolRequest, input GetDBInfoInput, pm *pool.Manager) (*mcp.CallToolResult, GetDBInfoOutput, error) {
	db, err := pm.Get(ctx)
	if err != nil {
		return nil, GetDBInfoOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var dbName, version string
	var tableCount int

	const dbNameQuery = "SELECT DATABASE()"
	if err := db.QueryRowContext(ctx, dbNameQuery).Scan(&dbName); err != nil {
		return nil, GetDBInfoOutput{}, common.NewQueryError(dbNameQuery, err)
	}

	const versionQuery = "SELECT VERSION()"
	if err := db.QueryRowContext(ctx, versionQuery).Scan(&version); err != nil {
		return nil, GetDBInfoOutput{}, common.NewQueryError(versionQuery, err)
	}

	const tableCountQuery = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE()"
	if err := db.QueryRowContext(ctx, tableCountQuery).Scan(&tableCount); err != nil {
		return nil, GetDBInfoOutput{}, common.NewQueryError(tableCountQuery, err)
	}

	output := GetDBInfoOutput{
		DatabaseName: dbName,
		Version:      "MySQL " + version,
		TableCount:   tableCount,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, GetDBInfoOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
