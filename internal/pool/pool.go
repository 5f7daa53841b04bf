// Package pool owns the single process-wide MySQL connection pool. The
// server constructs one Manager during startup and injects it into every
// tool; Get opens the pool on first use and always hands back the same
// *sql.DB afterwards.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"mysqlmcp/internal/common"
	"mysqlmcp/internal/config"
	"mysqlmcp/internal/logger"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 10 * time.Second
)

// Manager guards the pool behind a sync.Once: the pool is created at most
// once per Manager no matter how many handlers race the first Get, and a
// connect failure is remembered and returned to every later caller.
type Manager struct {
	cfg config.Config

	openOnce  sync.Once
	closeOnce sync.Once
	db        *sql.DB
	err       error

	open func(dsn string) (*sql.DB, error)
}

func New(cfg config.Config) *Manager {
	return &Manager{
		cfg: cfg,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open("mysql", dsn)
		},
	}
}

// NewWithDB wraps an already-open database handle. Used by tests to run
// handlers against a scripted driver.
func NewWithDB(db *sql.DB) *Manager {
	m := &Manager{db: db}
	m.openOnce.Do(func() {})
	return m
}

// Get returns the shared pool, connecting on first call.
func (m *Manager) Get(ctx context.Context) (*sql.DB, error) {
	m.openOnce.Do(func() {
		m.db, m.err = m.connect(ctx)
	})
	if m.err != nil {
		return nil, m.err
	}
	return m.db, nil
}

func (m *Manager) connect(ctx context.Context) (*sql.DB, error) {
	logger.Info("Connecting to MySQL database", map[string]interface{}{
		"host":     m.cfg.Host,
		"port":     m.cfg.Port,
		"database": m.cfg.Database,
	})

	db, err := m.open(buildDSN(m.cfg))
	if err != nil {
		logger.Error("Error connecting to database", err)
		return nil, common.NewConnectionError(err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		logger.Error("Error connecting to database", err)
		return nil, common.NewConnectionError(err)
	}

	logger.Info("Database connection established successfully")
	return db, nil
}

// Close shuts the pool down exactly once and waits for in-flight
// connections to drain. Safe to call when Get never ran; a Get after
// Close reports a connection error instead of reopening.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.openOnce.Do(func() {
			m.err = common.NewConnectionError(errors.New("pool is closed"))
		})
		if m.db != nil {
			logger.Info("Closing database pool")
			err = m.db.Close()
		}
	})
	return err
}

// buildDSN renders the go-sql-driver DSN. Unknown parameters become
// session system variables, so autocommit=false disables autocommit on
// every pooled connection.
func buildDSN(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&autocommit=false",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)
}
