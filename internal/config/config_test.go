package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum viable configuration for LoadFromEnv.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WAREHOUSE_PROJECT", "clinic")
	t.Setenv("WAREHOUSE_TABLE", "patients")
	t.Setenv("WAREHOUSE_PATH", "/tmp/clinic.duckdb")
	t.Setenv("CREDENTIALS_SOURCE", "/tmp/users.yaml")
	for _, key := range []string{
		"WAREHOUSE_DRIVER", "WAREHOUSE_DATASET", "BILLING_PROJECT",
		"SERVICE_CREDENTIAL", "LISTEN_ADDR", "SESSION_SECRET",
		"LOG_LEVEL", "ENV", "CORS_ALLOWED_ORIGINS", "WAREHOUSE_QUERY_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverDuckDB, cfg.WarehouseDriver)
	assert.Equal(t, "main", cfg.WarehouseDataset)
	assert.Equal(t, "clinic", cfg.BillingProject)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.NotEmpty(t, cfg.Warnings, "insecure session secret should produce a warning")
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WAREHOUSE_DATASET", "records")
	t.Setenv("BILLING_PROJECT", "clinic-billing")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("SESSION_SECRET", "supersecret")
	t.Setenv("WAREHOUSE_QUERY_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "records", cfg.WarehouseDataset)
	assert.Equal(t, "clinic-billing", cfg.BillingProject)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "supersecret", cfg.SessionSecret)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing project", "WAREHOUSE_PROJECT"},
		{"missing table", "WAREHOUSE_TABLE"},
		{"missing credentials source", "CREDENTIALS_SOURCE"},
		{"missing duckdb path", "WAREHOUSE_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_BigQueryRequiresServiceCredential(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WAREHOUSE_DRIVER", "bigquery")
	t.Setenv("WAREHOUSE_PATH", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVICE_CREDENTIAL")

	t.Setenv("SERVICE_CREDENTIAL", "/tmp/sa.json")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverBigQuery, cfg.WarehouseDriver)
}

func TestLoadFromEnv_UnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WAREHOUSE_DRIVER", "snowflake")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_ProductionRejectsDefaultSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "real-secret")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestYAMLCredentials(t *testing.T) {
	cfg := &Config{CredentialsSource: "users.yaml"}
	assert.True(t, cfg.YAMLCredentials())
	cfg.CredentialsSource = "USERS.YML"
	assert.True(t, cfg.YAMLCredentials())
	cfg.CredentialsSource = "users.sqlite"
	assert.False(t, cfg.YAMLCredentials())
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"info", "INFO"},
		{"", "INFO"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel().String(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nWARDGATE_TEST_A=hello\nWARDGATE_TEST_B=\"quoted\"\n\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("WARDGATE_TEST_A", "")
	t.Setenv("WARDGATE_TEST_B", "")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("WARDGATE_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("WARDGATE_TEST_B"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadDotEnv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WARDGATE_TEST_C=file\n"), 0o600))
	t.Setenv("WARDGATE_TEST_C", "env")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "env", os.Getenv("WARDGATE_TEST_C"))
}
