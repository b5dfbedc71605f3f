// Package main is the entry point for the gateway server binary.
// The server validates its warehouse configuration at startup and exposes
// the login and table endpoints under /v1, the browser UI under /ui, and a
// liveness probe at /healthz.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"

	"wardgate/internal/api"
	"wardgate/internal/app"
	"wardgate/internal/config"
	internaldb "wardgate/internal/db"
	"wardgate/internal/middleware"
	"wardgate/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Open and migrate the SQLite credential store when configured.
	// writeDB: single-connection pool for serialized writes.
	// readDB:  4-connection pool for concurrent lookups.
	var writeDB, readDB *sql.DB
	if !cfg.YAMLCredentials() {
		writeDB, readDB, err = internaldb.OpenSQLitePair(cfg.CredentialsSource, 4)
		if err != nil {
			return fmt.Errorf("open credential store: %w", err)
		}
		defer writeDB.Close()
		defer readDB.Close()

		if err := internaldb.RunMigrations(writeDB); err != nil {
			return fmt.Errorf("migrate credential store: %w", err)
		}
	}

	a, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer a.Connector.Close()

	// Prove the warehouse identity before accepting traffic. A missing table
	// or a refused credential is a configuration defect, not a runtime one.
	validateCtx, validateCancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	err = a.Connector.Validate(validateCtx, a.Spec)
	validateCancel()
	if err != nil {
		return fmt.Errorf("warehouse validation (%s): %w", a.Spec.FullyQualifiedTable(), err)
	}
	logger.Info("warehouse validated",
		"driver", cfg.WarehouseDriver,
		"table", a.Spec.FullyQualifiedTable(),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", api.Healthz)
	r.Mount("/v1", a.API.Routes())
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, a.UI, middleware.SessionAuth(a.Tokens, a.Sessions))
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/ui", http.StatusSeeOther)
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway listening", "addr", cfg.ListenAddr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
