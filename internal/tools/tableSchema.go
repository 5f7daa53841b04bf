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

type TableSchemaInput struct {
	TableName string `json:"table_name" jsonschema:"required" jsonschema_description:"Name of the table to get the schema for"`
}

type ColumnDef struct {
	ColumnName string `json:"column_name" jsonschema_description:"Column name"`
	DataType   string `json:"data_type" jsonschema_description:"Declared data type"`
}

type TableSchemaOutput struct {
	Columns []ColumnDef `json:"columns" jsonschema_description:"Columns in declaration order"`
}

func GetTableSchemaTool(pm *pool.Manager) *ToolDefinition[TableSchemaInput, TableSchemaOutput] {
	return NewToolDefinition[TableSchemaInput, TableSchemaOutput](
		"get_table_schema",
		"Get the schema of a table: column names and data types.",
		func(ctx context.Context, req *mcp.CallToolRequest, input TableSchemaInput) (*mcp.CallToolResult, TableSchemaOutput, error) {
			return tableSchemaHandler(ctx, req, input, pm)
		},
	)
}

func tableSchemaHandler(ctx context.Context, req *mcp.CallToolRequest, input TableSchemaInput, pm *pool.Manager) (*mcp.CallToolResult, TableSchemaOutput, error) {
	db, err := pm.Get(ctx)
	if err != nil {
		return nil, TableSchemaOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Table name is interpolated verbatim: the calling agent is trusted.
	query := fmt.Sprintf("DESCRIBE %s", input.TableName)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		logger.LogDatabaseOperation("DESCRIBE", query, 0, err)
		return nil, TableSchemaOutput{}, common.NewQueryError(query, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, TableSchemaOutput{}, err
	}

	columns := []ColumnDef{}
	for _, row := range results {
		columns = append(columns, ColumnDef{
			ColumnName: asString(row["Field"]),
			DataType:   asString(row["Type"]),
		})
	}

	logger.LogDatabaseOperation("DESCRIBE", query, int64(len(columns)), nil)

	output := TableSchemaOutput{Columns: columns}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, TableSchemaOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
