// Package warehouse connects to the external analytical store and runs the
// one fixed read query against it. The connector owns the warehouse handle
// and the service credential; neither is visible to sessions or callers.
package warehouse

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wardgate/internal/domain"
)

// Handle is one live connection to the warehouse.
type Handle interface {
	// Query runs the fixed read and returns the full table.
	Query(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error)
	// Validate checks that the spec's target table is reachable.
	Validate(ctx context.Context, spec domain.QuerySpec) error
	Close() error
}

// Dialer establishes a warehouse connection using the service credential.
type Dialer interface {
	Dial(ctx context.Context) (Handle, error)
}

// Compile-time check.
var _ domain.Connector = (*Connector)(nil)

// Connector lazily dials the warehouse on first use and reuses the single
// resulting handle for every query after that. Concurrent first calls are
// collapsed into one dial via singleflight, so at most one handle ever
// exists per connector.
type Connector struct {
	dialer  Dialer
	timeout time.Duration
	logger  *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	handle Handle
}

// NewConnector creates a Connector. timeout bounds each warehouse call;
// zero disables the bound.
func NewConnector(dialer Dialer, timeout time.Duration, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{dialer: dialer, timeout: timeout, logger: logger}
}

// Query connects if needed and runs the fixed query. A timed-out or failed
// warehouse call surfaces as a ConnectionError unless the handle already
// classified it.
func (c *Connector) Query(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error) {
	h, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := h.Query(ctx, spec)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrConnection(err, "warehouse query exceeded %s", c.timeout)
		}
		return nil, err
	}

	c.logger.Debug("warehouse query complete",
		"table", spec.FullyQualifiedTable(),
		"rows", result.RowCount,
		"duration", time.Since(start),
	)
	return result, nil
}

// Validate connects and verifies the target table exists. Called once at
// startup so a misconfigured table halts boot instead of failing requests.
func (c *Connector) Validate(ctx context.Context, spec domain.QuerySpec) error {
	h, err := c.connect(ctx)
	if err != nil {
		return err
	}
	return h.Validate(ctx, spec)
}

// Close releases the handle, if one was ever dialed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}

// connect returns the live handle, dialing it on first use. singleflight
// guarantees concurrent first callers share one dial and one handle.
func (c *Connector) connect(ctx context.Context) (Handle, error) {
	c.mu.RLock()
	h := c.handle
	c.mu.RUnlock()
	if h != nil {
		return h, nil
	}

	v, err, _ := c.group.Do("dial", func() (interface{}, error) {
		// Re-check: a previous flight may have stored the handle already.
		c.mu.RLock()
		existing := c.handle
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		dialed, err := c.dialer.Dial(ctx)
		if err != nil {
			var connErr *domain.ConnectionError
			if !errors.As(err, &connErr) {
				err = domain.ErrConnection(err, "warehouse connect failed")
			}
			return nil, err
		}

		c.mu.Lock()
		c.handle = dialed
		c.mu.Unlock()
		c.logger.Info("warehouse connected")
		return dialed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Handle), nil
}
