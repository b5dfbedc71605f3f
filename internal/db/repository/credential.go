// Package repository implements domain store interfaces over SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wardgate/internal/domain"
)

// Compile-time check.
var _ domain.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo implements domain.CredentialStore over the SQLite
// credential table. Read-only at request time; Seed is only used at startup
// and in tests.
type CredentialRepo struct {
	db *sql.DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Lookup returns the credential for username, or a NotFoundError.
func (r *CredentialRepo) Lookup(ctx context.Context, username string) (*domain.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT username, password, COALESCE(display_name, '') FROM credentials WHERE username = ?`,
		username,
	)

	var c domain.Credential
	if err := row.Scan(&c.Username, &c.Password, &c.DisplayName); err != nil {
		return nil, mapDBError(err, "credential %q", username)
	}
	return &c, nil
}

// Count returns the number of stored credentials.
func (r *CredentialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return n, nil
}

// Seed inserts credentials that don't exist yet. Used by startup seeding and
// tests; existing usernames are left untouched.
func (r *CredentialRepo) Seed(ctx context.Context, creds []domain.Credential) error {
	for _, c := range creds {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO credentials (username, password, display_name) VALUES (?, ?, ?)
			 ON CONFLICT(username) DO NOTHING`,
			c.Username, c.Password, nullable(c.DisplayName),
		)
		if err != nil {
			return fmt.Errorf("seed credential %q: %w", c.Username, err)
		}
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// mapDBError converts sql.ErrNoRows into a domain NotFoundError.
func mapDBError(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound(format+" not found", args...)
	}
	return err
}
