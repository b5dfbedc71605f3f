// Package app provides application-level wiring and dependency injection
// for the gateway server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"wardgate/internal/api"
	"wardgate/internal/config"
	"wardgate/internal/credstore"
	"wardgate/internal/db/repository"
	"wardgate/internal/domain"
	"wardgate/internal/gateway"
	"wardgate/internal/session"
	"wardgate/internal/ui"
	"wardgate/internal/warehouse"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// config, database handles, and the logger.
type Deps struct {
	Cfg *config.Config
	// WriteDB and ReadDB are the SQLite credential store pools. Both are nil
	// when the credentials source is a YAML file.
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Sessions  domain.SessionStore
	Gate      *session.Gate
	Tokens    *session.TokenManager
	Connector *warehouse.Connector
	Gateway   *gateway.Gateway
	Spec      domain.QuerySpec
	API       *api.Handler
	UI        *ui.Handler
}

// New wires the credential store, session machinery, warehouse connector,
// and handlers from the provided deps. It seeds the default admin credential
// when a SQLite store is empty; it does not touch the warehouse.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	creds, err := buildCredentialStore(ctx, deps)
	if err != nil {
		return nil, err
	}

	sessions := session.NewMemoryStore()
	gate := session.NewGate(creds, sessions)

	tokens, err := session.NewTokenManager(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	spec, err := domain.NewQuerySpec(cfg.WarehouseProject, cfg.WarehouseDataset, cfg.WarehouseTable)
	if err != nil {
		return nil, err
	}

	connector := warehouse.NewConnector(buildDialer(cfg), cfg.QueryTimeout,
		deps.Logger.With("component", "warehouse"))
	gw := gateway.New(connector, spec, deps.Logger.With("component", "gateway"))

	return &App{
		Sessions:  sessions,
		Gate:      gate,
		Tokens:    tokens,
		Connector: connector,
		Gateway:   gw,
		Spec:      spec,
		API:       api.NewHandler(gate, tokens, sessions, gw, deps.Logger.With("component", "api")),
		UI:        ui.NewHandler(gate, tokens, sessions, gw, cfg.IsProduction()),
	}, nil
}

// buildCredentialStore selects the login credential backend by the source
// path: YAML files load into memory, anything else is treated as a SQLite
// database that main() has already opened and migrated.
func buildCredentialStore(ctx context.Context, deps Deps) (domain.CredentialStore, error) {
	cfg := deps.Cfg
	if cfg.YAMLCredentials() {
		store, err := credstore.LoadYAMLFile(cfg.CredentialsSource)
		if err != nil {
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		deps.Logger.Info("credential store ready", "source", "yaml", "users", store.Len())
		return store, nil
	}

	if deps.WriteDB == nil {
		return nil, fmt.Errorf("sqlite credentials source %q requires an open database", cfg.CredentialsSource)
	}

	repo := repository.NewCredentialRepo(deps.WriteDB)
	if err := seedCredentials(ctx, repo); err != nil {
		return nil, fmt.Errorf("seed credentials: %w", err)
	}
	deps.Logger.Info("credential store ready", "source", "sqlite", "path", cfg.CredentialsSource)

	// Lookups go through the read pool.
	if deps.ReadDB != nil {
		return repository.NewCredentialRepo(deps.ReadDB), nil
	}
	return repo, nil
}

func buildDialer(cfg *config.Config) warehouse.Dialer {
	if cfg.WarehouseDriver == config.DriverBigQuery {
		return &warehouse.BigQueryDialer{
			ServiceCredential: cfg.ServiceCredential,
			BillingProject:    cfg.BillingProject,
		}
	}
	return &warehouse.DuckDBDialer{
		Path:              cfg.WarehousePath,
		Project:           cfg.WarehouseProject,
		ServiceCredential: cfg.ServiceCredential,
	}
}
