package tools

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysqlmcp/internal/common"
)

func TestTableDataEchoesRows(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SELECT * FROM test_table").
		WillReturnRows(sqlmock.NewRows([]string{"id", "value"}).
			AddRow(int64(1), "data1").
			AddRow(int64(2), "data2"))

	_, output, err := tableDataHandler(context.Background(), nil, TableDataInput{Query: "SELECT * FROM test_table"}, pm, false)
	require.NoError(t, err)

	require.Len(t, output.Rows, 2)
	assert.Equal(t, int64(1), output.Rows[0]["id"])
	assert.Equal(t, "data1", output.Rows[0]["value"])
	assert.Equal(t, int64(2), output.Rows[1]["id"])
	assert.Equal(t, "data2", output.Rows[1]["value"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDataEmptyResultSet(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SELECT * FROM empty_table").
		WillReturnRows(sqlmock.NewRows([]string{"id", "value"}))

	result, output, err := tableDataHandler(context.Background(), nil, TableDataInput{Query: "SELECT * FROM empty_table"}, pm, false)
	require.NoError(t, err)

	assert.NotNil(t, output.Rows)
	assert.Empty(t, output.Rows)
	assert.JSONEq(t, `{"rows":[]}`, resultText(t, result))
}

func TestTableDataByteValuesBecomeStrings(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SELECT name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow([]byte("alice")))

	_, output, err := tableDataHandler(context.Background(), nil, TableDataInput{Query: "SELECT name FROM users"}, pm, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", output.Rows[0]["name"])
}

func TestTableDataReadOnlyRejectsNonSelect(t *testing.T) {
	pm, _ := newMockPool(t)

	_, _, err := tableDataHandler(context.Background(), nil,
		TableDataInput{Query: "UPDATE test_table SET value = 'new_data' WHERE id = 1"}, pm, true)
	require.Error(t, err)
	assert.EqualError(t, err, "You can only perform SELECT queries")
}

func TestTableDataVerbatimByDefault(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("UPDATE test_table SET value = 'x'").
		WillReturnRows(sqlmock.NewRows([]string{}))

	// Without read-only mode any statement the credentials permit runs.
	_, output, err := tableDataHandler(context.Background(), nil,
		TableDataInput{Query: "UPDATE test_table SET value = 'x'"}, pm, false)
	require.NoError(t, err)
	assert.Empty(t, output.Rows)
}

func TestTableDataQueryError(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SELECT * FROM missing").
		WillReturnError(errors.New("table does not exist"))

	_, _, err := tableDataHandler(context.Background(), nil, TableDataInput{Query: "SELECT * FROM missing"}, pm, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueryFailed))
}
