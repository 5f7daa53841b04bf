package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/pool"
)

type HealthCheckInput struct{}

type HealthCheckOutput struct {
	Status   string `json:"status" jsonschema_description:"'healthy' or 'error'"`
	Database string `json:"database,omitempty" jsonschema_description:"Connection state ('connected' when healthy)"`
	Result   int    `json:"result,omitempty" jsonschema_description:"Sentinel value returned by the liveness query"`
	Error    string `json:"error,omitempty" jsonschema_description:"Error message when degraded"`
}

func GetHealthCheckTool(pm *pool.Manager) *ToolDefinition[HealthCheckInput, HealthCheckOutput] {
	return NewToolDefinition[HealthCheckInput, HealthCheckOutput](
		"health_check",
		"Check the health of the database connection.",
		func(ctx context.Context, req *mcp.CallToolRequest, input HealthCheckInput) (*mcp.CallToolResult, HealthCheckOutput, error) {
			return healthCheckHandler(ctx, req, input, pm)
		},
	)
}

// healthCheckHandler never propagates an error to the caller: any failure
// is logged and downgraded to a status payload.
func healthCheckHandler(ctx context.Context, req *mcp.CallToolRequest, input HealthCheckInput, pm *pool.Manager) (*mcp.CallToolResult, HealthCheckOutput, error) {
	db, err := pm.Get(ctx)
	if err != nil {
		return degradedResult(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sentinel int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&sentinel); err != nil {
		return degradedResult(err)
	}

	output := HealthCheckOutput{
		Status:   "healthy",
		Database: "connected",
		Result:   sentinel,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return degradedResult(err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func degradedResult(err error) (*mcp.CallToolResult, HealthCheckOutput, error) {
	logger.Error("Health check error", err)

	output := HealthCheckOutput{
		Status: "error",
		Error:  "Service unavailable",
	}

	jsonBytes, marshalErr := json.Marshal(output)
	if marshalErr != nil {
		jsonBytes = []byte(fmt.Sprintf(`{"status":"error","error":%q}`, output.Error))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
