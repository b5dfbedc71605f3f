package app

import (
	"context"

	"wardgate/internal/db/repository"
	"wardgate/internal/domain"
)

// seedCredentials populates an empty SQLite credential table with the demo
// admin login. Idempotent: an already-populated table is left untouched.
func seedCredentials(ctx context.Context, repo *repository.CredentialRepo) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // already seeded
	}

	return repo.Seed(ctx, []domain.Credential{
		{Username: "admin", Password: "admin123", DisplayName: "Administrator"},
	})
}
