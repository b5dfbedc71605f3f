// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync/atomic"

	"wardgate/internal/domain"
)

// === Connector Mock ===

// MockConnector implements domain.Connector for testing. Calls counts every
// invocation so tests can assert the connector was, or was not, reached.
type MockConnector struct {
	QueryFn func(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error)
	Calls   atomic.Int64
}

// Query implements the interface method for testing.
func (m *MockConnector) Query(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error) {
	m.Calls.Add(1)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, spec)
	}
	panic("unexpected call to MockConnector.Query")
}

var _ domain.Connector = (*MockConnector)(nil)

// === Credential Store Mock ===

// MockCredentialStore implements domain.CredentialStore for testing.
type MockCredentialStore struct {
	LookupFn func(ctx context.Context, username string) (*domain.Credential, error)
}

// Lookup implements the interface method for testing.
func (m *MockCredentialStore) Lookup(ctx context.Context, username string) (*domain.Credential, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, username)
	}
	panic("unexpected call to MockCredentialStore.Lookup")
}

var _ domain.CredentialStore = (*MockCredentialStore)(nil)

// === Session Store Mock ===

// MockSessionStore implements domain.SessionStore for testing.
// Uses function fields so tests only need to set the methods they care about.
type MockSessionStore struct {
	CreateFn            func(ctx context.Context) (*domain.Session, error)
	GetFn               func(ctx context.Context, id string) (*domain.Session, error)
	MarkAuthenticatedFn func(ctx context.Context, id string, username string) (*domain.Session, error)
}

// Create implements the interface method for testing.
func (m *MockSessionStore) Create(ctx context.Context) (*domain.Session, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx)
	}
	panic("unexpected call to MockSessionStore.Create")
}

// Get implements the interface method for testing.
func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	panic("unexpected call to MockSessionStore.Get")
}

// MarkAuthenticated implements the interface method for testing.
func (m *MockSessionStore) MarkAuthenticated(ctx context.Context, id string, username string) (*domain.Session, error) {
	if m.MarkAuthenticatedFn != nil {
		return m.MarkAuthenticatedFn(ctx, id, username)
	}
	panic("unexpected call to MockSessionStore.MarkAuthenticated")
}

var _ domain.SessionStore = (*MockSessionStore)(nil)

// FixtureTable returns a small three-row result in the shape of the demo
// clinic table, for handler and gateway tests.
func FixtureTable() *domain.ResultTable {
	return &domain.ResultTable{
		Columns: []string{"patient_id", "age", "diagnosis"},
		Rows: [][]interface{}{
			{"P001", int64(34), "hypertension"},
			{"P002", int64(57), "diabetes"},
			{"P003", int64(29), "asthma"},
		},
		RowCount: 3,
	}
}
