package tools

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var showIndexColumns = []string{"Table", "Non_unique", "Key_name", "Seq_in_index", "Column_name", "Collation"}

// indexSet views handler output as a set of (index_name, ordered columns)
// pairs: iteration order across distinct indexes is not contractual.
func indexSet(entries []IndexEntry) map[string][]string {
	set := make(map[string][]string, len(entries))
	for _, e := range entries {
		set[e.IndexName] = e.Columns
	}
	return set
}

func TestShowIndexesGroupsByIndexName(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SHOW INDEX FROM coupons").
		WillReturnRows(sqlmock.NewRows(showIndexColumns).
			AddRow("coupons", 0, "PRIMARY", 1, "id", "A").
			AddRow("coupons", 1, "batch_id_index", 1, "batch_id", "A").
			AddRow("coupons", 0, "payment_id_installment", 1, "payment_id", "A").
			AddRow("coupons", 0, "payment_id_installment", 2, "current_installment", "A"))

	_, output, err := showIndexesHandler(context.Background(), nil, ShowIndexesInput{TableName: "coupons"}, pm)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"PRIMARY":                {"id"},
		"batch_id_index":         {"batch_id"},
		"payment_id_installment": {"payment_id", "current_installment"},
	}, indexSet(output.Indexes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowIndexesOrdersColumnsBySequence(t *testing.T) {
	pm, mock := newMockPool(t)
	// Rows arrive with sequence positions out of order.
	mock.ExpectQuery("SHOW INDEX FROM orders").
		WillReturnRows(sqlmock.NewRows(showIndexColumns).
			AddRow("orders", 0, "composite_idx", 3, "region", "A").
			AddRow("orders", 0, "composite_idx", 1, "customer_id", "A").
			AddRow("orders", 0, "composite_idx", 2, "order_date", "A"))

	_, output, err := showIndexesHandler(context.Background(), nil, ShowIndexesInput{TableName: "orders"}, pm)
	require.NoError(t, err)

	require.Len(t, output.Indexes, 1)
	assert.Equal(t, []string{"customer_id", "order_date", "region"}, output.Indexes[0].Columns)
}

func TestShowIndexesEmptyTable(t *testing.T) {
	pm, mock := newMockPool(t)
	mock.ExpectQuery("SHOW INDEX FROM bare").
		WillReturnRows(sqlmock.NewRows(showIndexColumns))

	_, output, err := showIndexesHandler(context.Background(), nil, ShowIndexesInput{TableName: "bare"}, pm)
	require.NoError(t, err)
	assert.Empty(t, output.Indexes)
}

func TestGroupIndexRowsSequenceAsText(t *testing.T) {
	// Some drivers deliver Seq_in_index as text.
	rows := []map[string]interface{}{
		{"Key_name": "pi", "Seq_in_index": "2", "Column_name": "b"},
		{"Key_name": "pi", "Seq_in_index": "1", "Column_name": "a"},
	}

	entries := groupIndexRows(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, "pi", entries[0].IndexName)
	assert.Equal(t, []string{"a", "b"}, entries[0].Columns)
}
