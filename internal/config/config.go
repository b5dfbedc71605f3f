// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DriverDuckDB and DriverBigQuery are the supported warehouse backends.
const (
	DriverDuckDB   = "duckdb"
	DriverBigQuery = "bigquery"
)

// insecureSessionSecret is the development fallback; production refuses it.
const insecureSessionSecret = "dev-secret-change-in-production"

// Config holds the configuration for the gateway server.
type Config struct {
	// Warehouse identity: the fixed query reads project.dataset.table.
	WarehouseDriver  string // "duckdb" (default) or "bigquery"
	WarehouseProject string // attach alias (duckdb) or GCP project (bigquery)
	WarehouseDataset string // schema / dataset id (default "main")
	WarehouseTable   string // target table name
	WarehousePath    string // duckdb database file to attach (duckdb driver)
	BillingProject   string // project billed for bigquery jobs (defaults to WarehouseProject)

	// ServiceCredential is a path to the warehouse service credential:
	// an S3 secret file (duckdb) or a service-account key file (bigquery).
	// This is the application's own credential, never an end-user login.
	ServiceCredential string

	// CredentialsSource points at the login credential table: a YAML file
	// (*.yaml/*.yml) or a SQLite database path.
	CredentialsSource string

	ListenAddr    string        // HTTP listen address (default ":8080")
	SessionSecret string        // HS256 secret for session tokens
	LogLevel      string        // debug, info, warn, error (default "info")
	Env           string        // "development" (default) or "production"
	QueryTimeout  time.Duration // bound on the warehouse call (default 30s)

	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// YAMLCredentials reports whether CredentialsSource is a YAML file rather
// than a SQLite database path.
func (c *Config) YAMLCredentials() bool {
	lower := strings.ToLower(c.CredentialsSource)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// LoadFromEnv loads configuration from environment variables and applies
// defaults. Warehouse identity and the credentials source are required.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		WarehouseDriver:   os.Getenv("WAREHOUSE_DRIVER"),
		WarehouseProject:  os.Getenv("WAREHOUSE_PROJECT"),
		WarehouseDataset:  os.Getenv("WAREHOUSE_DATASET"),
		WarehouseTable:    os.Getenv("WAREHOUSE_TABLE"),
		WarehousePath:     os.Getenv("WAREHOUSE_PATH"),
		BillingProject:    os.Getenv("BILLING_PROJECT"),
		ServiceCredential: os.Getenv("SERVICE_CREDENTIAL"),
		CredentialsSource: os.Getenv("CREDENTIALS_SOURCE"),
		ListenAddr:        os.Getenv("LISTEN_ADDR"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		Env:               os.Getenv("ENV"),
	}

	if v := os.Getenv("WAREHOUSE_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WAREHOUSE_QUERY_TIMEOUT %q: %w", v, err)
		}
		cfg.QueryTimeout = d
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// Defaults
	if cfg.WarehouseDriver == "" {
		cfg.WarehouseDriver = DriverDuckDB
	}
	if cfg.WarehouseDataset == "" {
		cfg.WarehouseDataset = "main"
	}
	if cfg.BillingProject == "" {
		cfg.BillingProject = cfg.WarehouseProject
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 30 * time.Second
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = insecureSessionSecret
		cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET not set — using insecure default. Set SESSION_SECRET in production!")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks required fields and per-driver consistency. A broken
// warehouse identity is a configuration defect and must halt startup.
func (c *Config) validate() error {
	switch c.WarehouseDriver {
	case DriverDuckDB, DriverBigQuery:
	default:
		return fmt.Errorf("unknown WAREHOUSE_DRIVER %q: must be %q or %q", c.WarehouseDriver, DriverDuckDB, DriverBigQuery)
	}
	if c.WarehouseProject == "" {
		return fmt.Errorf("WAREHOUSE_PROJECT is required")
	}
	if c.WarehouseTable == "" {
		return fmt.Errorf("WAREHOUSE_TABLE is required")
	}
	if c.CredentialsSource == "" {
		return fmt.Errorf("CREDENTIALS_SOURCE is required")
	}
	if c.WarehouseDriver == DriverDuckDB && c.WarehousePath == "" {
		return fmt.Errorf("WAREHOUSE_PATH is required for the duckdb driver")
	}
	if c.WarehouseDriver == DriverBigQuery && c.ServiceCredential == "" {
		return fmt.Errorf("SERVICE_CREDENTIAL is required for the bigquery driver")
	}
	if c.IsProduction() && c.SessionSecret == insecureSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in production (ENV=production)")
	}
	return nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
