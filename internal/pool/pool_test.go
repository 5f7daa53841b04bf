package pool

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "secret",
		Database: "testdb",
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(testConfig())
	assert.Equal(t, "root:secret@tcp(localhost:3306)/testdb?parseTime=true&autocommit=false", dsn)
}

func TestGetConstructsPoolOnce(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	var opens int32
	m := New(testConfig())
	m.open = func(string) (*sql.DB, error) {
		atomic.AddInt32(&opens, 1)
		return db, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Get(context.Background())
			assert.NoError(t, err)
			assert.Same(t, db, got)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&opens))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConnectFailureIsSticky(t *testing.T) {
	var opens int32
	m := New(testConfig())
	m.open = func(string) (*sql.DB, error) {
		atomic.AddInt32(&opens, 1)
		return nil, errors.New("dial tcp: connection refused")
	}

	_, err := m.Get(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConnectionFailed))

	// No retry: the failure is remembered, not re-attempted.
	_, err = m.Get(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&opens))
}

func TestGetPingFailureClosesHandle(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("bad handshake"))
	mock.ExpectClose()

	m := New(testConfig())
	m.open = func(string) (*sql.DB, error) { return db, nil }

	_, err = m.Get(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConnectionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseWithoutGet(t *testing.T) {
	m := New(testConfig())
	require.NoError(t, m.Close())

	// The pool must not come up after shutdown.
	_, err := m.Get(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConnectionFailed))
}

func TestCloseExactlyOnce(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	m := New(testConfig())
	m.open = func(string) (*sql.DB, error) { return db, nil }

	_, err = m.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithDB(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)

	m := NewWithDB(db)
	got, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, db, got)
}
