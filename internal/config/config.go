package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the database and logging settings for the server. Values come
// from MYSQL_DATABASE_* environment variables; the CLI may override them
// with flags before the pool is created.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// ReadOnly restricts get_table_data and show_explain_query to SELECT
	// statements. Off by default: SQL text is a documented trust boundary.
	ReadOnly bool

	Logging LoggingConfig
}

type LoggingConfig struct {
	Level      string
	OutputFile string
	MaxSizeMB  int64
	Console    bool
}

const DefaultPort = 3306

// Load reads configuration from the environment. It fails on the first
// missing required value so a misconfigured process never serves traffic.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_max_size_mb", 10)

	bindings := map[string]string{
		"host":            "MYSQL_DATABASE_HOST",
		"port":            "MYSQL_DATABASE_PORT",
		"user":            "MYSQL_DATABASE_USER",
		"password":        "MYSQL_DATABASE_PASSWORD",
		"database":        "MYSQL_DATABASE_NAME",
		"log_level":       "MYSQL_MCP_LOG_LEVEL",
		"log_file":        "MYSQL_MCP_LOG_FILE",
		"log_max_size_mb": "MYSQL_MCP_LOG_MAX_SIZE_MB",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		User:     v.GetString("user"),
		Password: v.GetString("password"),
		Database: v.GetString("database"),
		Logging: LoggingConfig{
			Level:      v.GetString("log_level"),
			OutputFile: v.GetString("log_file"),
			MaxSizeMB:  v.GetInt64("log_max_size_mb"),
			Console:    true,
		},
	}

	return cfg, nil
}

// Validate checks the fields the pool cannot connect without.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required (MYSQL_DATABASE_HOST)")
	}
	if c.User == "" {
		return fmt.Errorf("database user is required (MYSQL_DATABASE_USER)")
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required (MYSQL_DATABASE_NAME)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}
	return nil
}
