package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mysqlmcp/internal/config"
	"mysqlmcp/internal/logger"
	"mysqlmcp/internal/server"
)

const version = "v0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mysql-mcp-server",
	Short: "MCP server for inspecting a MySQL database",
	Long:  `A Model Context Protocol (MCP) server exposing read-oriented MySQL inspection tools for AI clients.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags override the MYSQL_DATABASE_* environment
	rootCmd.PersistentFlags().String("host", "", "Database host (env MYSQL_DATABASE_HOST)")
	rootCmd.PersistentFlags().Int("port", config.DefaultPort, "Database port (env MYSQL_DATABASE_PORT)")
	rootCmd.PersistentFlags().String("user", "", "Database user (env MYSQL_DATABASE_USER)")
	rootCmd.PersistentFlags().String("password", "", "Database password (env MYSQL_DATABASE_PASSWORD)")
	rootCmd.PersistentFlags().String("database", "", "Database name (env MYSQL_DATABASE_NAME)")
	rootCmd.PersistentFlags().BoolP("read-only", "r", false, "Restrict query tools to SELECT statements")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("log-file", "", "Optional log file path")

	// Subcommand: stdio (local transport, like IDE integration)
	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Run over stdio transport (for local MCP clients)",
		RunE:  runStdioServer,
	}
	rootCmd.AddCommand(stdioCmd)

	// Subcommand: http (SSE transport for remote clients)
	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Run over HTTP/SSE transport (for remote clients)",
		RunE:  runHTTPServer,
	}
	httpCmd.Flags().String("addr", ":3002", "HTTP listen address")
	rootCmd.AddCommand(httpCmd)
}

// loadConfig reads env configuration, applies flag overrides, and brings
// the logger up before anything else can fail.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("user") {
		cfg.User, _ = flags.GetString("user")
	}
	if flags.Changed("password") {
		cfg.Password, _ = flags.GetString("password")
	}
	if flags.Changed("database") {
		cfg.Database, _ = flags.GetString("database")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Logging.OutputFile, _ = flags.GetString("log-file")
	}
	cfg.ReadOnly, _ = flags.GetBool("read-only")

	if err := logger.Initialize(logger.ConfigFromLoggingConfig(cfg.Logging)); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", err)
		return nil, err
	}

	return cfg, nil
}

func runStdioServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Shutdown()

	return server.RunStdioServer(server.Config{
		Version:  version,
		DBConfig: cfg,
	})
}

func runHTTPServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Shutdown()

	addr, _ := cmd.Flags().GetString("addr")

	return server.RunHTTPServer(server.Config{
		Version:  version,
		DBConfig: cfg,
		HTTPAddr: addr,
	})
}
