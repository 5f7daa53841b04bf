package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/pool"
)

type ShowIndexesInput struct {
	TableName string `json:"table_name" jsonschema:"required" jsonschema_description:"Name of the table to show the indexes for"`
}

type IndexEntry struct {
	IndexName string   `json:"index_name" jsonschema_description:"Index name"`
	Columns   []string `json:"columns" jsonschema_description:"Columns in composite-index order"`
}

type ShowIndexesOutput struct {
	Indexes []IndexEntry `json:"indexes" jsonschema_description:"One entry per index"`
}

func GetShowIndexesTool(pm *pool.Manager) *ToolDefinition[ShowIndexesInput, ShowIndexesOutput] {
	return NewToolDefinition[ShowIndexesInput, ShowIndexesOutput](
		"show_indexes_table",
		"Show the indexes of a table, one entry per index with its columns in order.",
		func(ctx context.Context, req *mcp.CallToolRequest, input ShowIndexesInput) (*mcp.CallToolResult, ShowIndexesOutput, error) {
			return showIndexesHandler(ctx, req, input, pm)
		},
	)
}

func showIndexesHandler(ctx context.Context, req *mcp.CallToolRequest, input ShowIndexesInput, pm *pool.Manager) (*mcp.CallToolResult, ShowIndexesOutput, error) {
	db, err := pm.Get(ctx)
	if err != nil {
		return nil, ShowIndexesOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := fmt.Sprintf("SHOW INDEX FROM %s", input.TableName)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		logger.LogDatabaseOperation("SHOW_INDEX", query, 0, err)
		return nil, ShowIndexesOutput{}, common.NewQueryError(query, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, ShowIndexesOutput{}, err
	}

	output := ShowIndexesOutput{Indexes: groupIndexRows(results)}

	logger.LogDatabaseOperation("SHOW_INDEX", query, int64(len(results)), nil)

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, ShowIndexesOutput{}, fmt.Errorf("JSON marshal error: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

type indexedColumn struct {
	seq  int
	name string
}

// groupIndexRows folds raw SHOW INDEX rows (one per index/column pair)
// into one entry per index. Seq_in_index is 1-based and orders columns
// within a composite index; index names keep first-appearance order.
func groupIndexRows(rows []map[string]interface{}) []IndexEntry {
	order := []string{}
	groups := map[string][]indexedColumn{}

	for _, row := range rows {
		indexName := asString(row["Key_name"])
		columnName := asString(row["Column_name"])
		seq, ok := asInt(row["Seq_in_index"])
		if !ok {
			seq = len(groups[indexName]) + 1
		}

		if _, exists := groups[indexName]; !exists {
			order = append(order, indexName)
		}
		groups[indexName] = append(groups[indexName], indexedColumn{seq: seq, name: columnName})
	}

	indexes := []IndexEntry{}
	for _, indexName := range order {
		cols := groups[indexName]
		sort.Slice(cols, func(i, j int) bool { return cols[i].seq < cols[j].seq })

		columns := make([]string, 0, len(cols))
		for _, col := range cols {
			columns = append(columns, col.name)
		}
		indexes = append(indexes, IndexEntry{IndexName: indexName, Columns: columns})
	}

	return indexes
}
