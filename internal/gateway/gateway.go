// Package gateway enforces the one security boundary of the system: only an
// authenticated session may trigger the fixed warehouse read.
package gateway

import (
	"context"
	"log/slog"

	"wardgate/internal/domain"
)

// Gateway issues the single predefined query on behalf of authenticated
// sessions. The precondition check lives here, on the data path itself, so
// no caller can reach the warehouse around it.
type Gateway struct {
	connector domain.Connector
	spec      domain.QuerySpec
	logger    *slog.Logger
}

// New creates a Gateway bound to the one QuerySpec built at startup.
func New(connector domain.Connector, spec domain.QuerySpec, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{connector: connector, spec: spec, logger: logger}
}

// Spec returns the fixed query spec, for display purposes only.
func (g *Gateway) Spec() domain.QuerySpec { return g.spec }

// Fetch returns the full target table for an authenticated session. An
// unauthenticated (or absent) session fails with Unauthorized before the
// connector is ever invoked. The result is returned exactly as produced by
// the warehouse: every authenticated session sees the whole table.
func (g *Gateway) Fetch(ctx context.Context, sess *domain.Session) (*domain.ResultTable, error) {
	if sess == nil || !sess.Authenticated {
		return nil, domain.ErrUnauthorized("data fetch requires an authenticated session")
	}

	result, err := g.connector.Query(ctx, g.spec)
	if err != nil {
		g.logger.Warn("warehouse fetch failed",
			"table", g.spec.FullyQualifiedTable(),
			"session", sess.ID,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}
