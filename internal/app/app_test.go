package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardgate/internal/config"
	internaldb "wardgate/internal/db"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		WarehouseDriver:  config.DriverDuckDB,
		WarehouseProject: "demo-project",
		WarehouseDataset: "clinic",
		WarehouseTable:   "patients",
		WarehousePath:    filepath.Join(t.TempDir(), "clinic.duckdb"),
		SessionSecret:    "unit-test-secret",
		QueryTimeout:     5 * time.Second,
	}
}

func writeCredentialYAML(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	content := "users:\n  - username: admin\n    password: admin123\n    display_name: Administrator\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_YAMLCredentials(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CredentialsSource = writeCredentialYAML(t)

	a, err := New(context.Background(), Deps{Cfg: cfg, Logger: testLogger()})
	require.NoError(t, err)

	sess, err := a.Sessions.Create(context.Background())
	require.NoError(t, err)

	sess, err = a.Gate.Authenticate(context.Background(), sess.ID, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)

	assert.Equal(t, "demo-project.clinic.patients", a.Spec.FullyQualifiedTable())
	assert.NotNil(t, a.API)
	assert.NotNil(t, a.UI)
}

func TestNew_SQLiteCredentialsSeedsAdmin(t *testing.T) {
	writeDB, readDB := internaldb.OpenTestSQLite(t)

	cfg := baseConfig(t)
	cfg.CredentialsSource = "credentials.sqlite"

	a, err := New(context.Background(), Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  testLogger(),
	})
	require.NoError(t, err)

	sess, err := a.Sessions.Create(context.Background())
	require.NoError(t, err)

	sess, err = a.Gate.Authenticate(context.Background(), sess.ID, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
}

func TestNew_SQLiteSourceWithoutDB(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CredentialsSource = "credentials.sqlite"

	_, err := New(context.Background(), Deps{Cfg: cfg, Logger: testLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an open database")
}

func TestNew_MissingCredentialFile(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CredentialsSource = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), Deps{Cfg: cfg, Logger: testLogger()})
	require.Error(t, err)
}
