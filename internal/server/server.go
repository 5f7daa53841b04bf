package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mysqlmcp/internal/config"
	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/pool"
	"mysqlmcp/internal/tools"
)

const serverName = "mysql-mcp-server"

type Config struct {
	Version  string
	DBConfig *config.Config

	// HTTPAddr is the listen address for the http transport.
	HTTPAddr string
}

// NewMCPServer assembles the MCP server with all tools registered against
// the given pool manager.
func NewMCPServer(cfg Config, pm *pool.Manager) *mcp.Server {
	impl := &mcp.Implementation{Name: serverName, Version: cfg.Version}
	server := mcp.NewServer(impl, nil)

	tools.RegisterTools(server, pm, cfg.DBConfig.ReadOnly)

	return server
}

// startup builds the pool manager and verifies connectivity. A failure
// here is fatal: the process must not serve tools it cannot back.
func startup(ctx context.Context, cfg Config) (*pool.Manager, error) {
	logger.Info("Initializing MCP lifecycle...")

	pm := pool.New(*cfg.DBConfig)
	if _, err := pm.Get(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	logger.Info("Database pool ready, MCP server initialized and ready to receive requests.")
	return pm, nil
}

func shutdown(pm *pool.Manager) {
	logger.Info("Shutting down MCP server and database pool...")
	if err := pm.Close(); err != nil {
		logger.Error("Error closing database pool", err)
		return
	}
	logger.Info("Database pool closed.")
}

// RunStdioServer serves MCP over stdio until the context is cancelled by
// an interrupt or termination signal.
func RunStdioServer(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pm, err := startup(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(pm)

	server := NewMCPServer(cfg, pm)

	logger.Info("MySQL MCP server running", map[string]interface{}{
		"transport": "stdio",
		"read_only": cfg.DBConfig.ReadOnly,
	})

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// RunHTTPServer serves MCP over SSE on cfg.HTTPAddr with graceful
// shutdown: the listener drains before the pool closes.
func RunHTTPServer(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pm, err := startup(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(pm)

	server := NewMCPServer(cfg, pm)

	handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", err)
		}
	}()

	logger.Info("MySQL MCP server running", map[string]interface{}{
		"transport": "sse",
		"addr":      cfg.HTTPAddr,
		"read_only": cfg.DBConfig.ReadOnly,
	})

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
