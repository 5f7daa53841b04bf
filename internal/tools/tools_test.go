package tools

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"mysqlmcp/internal/pool"
)

// newMockPool returns a pool manager backed by a scripted driver.
// Statements are matched by exact equality so tests pin the SQL each
// handler issues.
func newMockPool(t *testing.T) (*pool.Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return pool.NewWithDB(db), mock
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRegisterTools(t *testing.T) {
	pm, _ := newMockPool(t)

	impl := &mcp.Implementation{Name: "test-server", Version: "v0.0.0"}
	server := mcp.NewServer(impl, nil)

	// Registration must not touch the database.
	RegisterTools(server, pm, false)
}
