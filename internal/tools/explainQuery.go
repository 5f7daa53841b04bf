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

type ExplainQueryInput struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"SQL query to explain"`
}

type ExplainQueryOutput struct {
	Rows []map[string]interface{} `json:"rows" jsonschema_description:"Execution plan rows"`
}

func GetExplainQueryTool(pm *pool.Manager, readOnly bool) *ToolDefinition[ExplainQueryInput, ExplainQueryOutput] {
	return NewToolDefinition[ExplainQueryInput, ExplainQueryOutput](
		"show_explain_query",
		"Show the execution plan of a query.",
		func(ctx context.Context, req *mcp.CallToolRequest, input ExplainQueryInput) (*mcp.CallToolResult, ExplainQueryOutput, error) {
			return explainQueryHandler(ctx, req, input, pm, readOnly)
		},
	)
}

func explainQueryHandler(ctx context.Context, req *mcp.CallToolRequest, input ExplainQueryInput, pm *pool.Manager, readOnly bool) (*mcp.CallToolResult, ExplainQueryOutput, error) {
	if readOnly && !isSelect(input.Query) {
		return nil, ExplainQueryOutput{}, fmt.Errorf("You can only perform SELECT queries")
	}

	db, err := pm.Get(ctx)
	if err != nil {
		return nil, ExplainQueryOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	query := fmt.Sprintf("EXPLAIN %s", input.Query)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		logger.LogDatabaseOperation("EXPLAIN", query, 0, err)
		return nil, ExplainQueryOutput{}, common.NewQueryError(query, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, ExplainQueryOutput{}, err
	}

	logger.LogDatabaseOperation("EXPLAIN", query, int64(len(results)), nil)

	output := ExplainQueryOutput{Rows: results}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, ExplainQueryOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
