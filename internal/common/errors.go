package common

import (
	"github.com/cockroachdb/errors"
)

// Error kinds shared across the server. Handlers and the pool mark their
// failures with one of these so callers can classify with errors.Is.
var (
	// ErrConnectionFailed marks failures to create the pool or reach the database.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrQueryFailed marks statements the database rejected or failed to run.
	ErrQueryFailed = errors.New("query failed")
)

// NewConnectionError wraps a connect/ping failure as a connection error.
func NewConnectionError(err error) error {
	return errors.Mark(errors.Wrap(err, "failed to establish database connection"), ErrConnectionFailed)
}

// NewQueryError wraps a statement failure as a query error. The statement
// is truncated so long SQL does not flood error chains and logs.
func NewQueryError(stmt string, err error) error {
	return errors.Mark(errors.Wrapf(err, "statement failed: %s", TruncateSQL(stmt)), ErrQueryFailed)
}

// TruncateSQL shortens a statement for inclusion in errors and log lines.
func TruncateSQL(stmt string) string {
	if len(stmt) > 100 {
		return stmt[:100] + "..."
	}
	return stmt
}
