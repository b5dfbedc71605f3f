package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "wardgate/internal/db"
	"wardgate/internal/domain"
)

func setupCredentialTest(t *testing.T) *CredentialRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewCredentialRepo(writeDB)
}

func TestCredentialRepo_SeedAndLookup(t *testing.T) {
	repo := setupCredentialTest(t)
	ctx := context.Background()

	err := repo.Seed(ctx, []domain.Credential{
		{Username: "admin", Password: "admin123", DisplayName: "Administrator"},
		{Username: "viewer", Password: "hunter2"},
	})
	require.NoError(t, err)

	c, err := repo.Lookup(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Username)
	assert.Equal(t, "admin123", c.Password)
	assert.Equal(t, "Administrator", c.DisplayName)

	c, err = repo.Lookup(ctx, "viewer")
	require.NoError(t, err)
	assert.Empty(t, c.DisplayName)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCredentialRepo_LookupUnknown(t *testing.T) {
	repo := setupCredentialTest(t)

	_, err := repo.Lookup(context.Background(), "nope")
	require.Error(t, err)

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCredentialRepo_SeedIsIdempotent(t *testing.T) {
	repo := setupCredentialTest(t)
	ctx := context.Background()

	creds := []domain.Credential{{Username: "admin", Password: "admin123"}}
	require.NoError(t, repo.Seed(ctx, creds))

	// Reseeding with a different password must not overwrite the original.
	require.NoError(t, repo.Seed(ctx, []domain.Credential{{Username: "admin", Password: "other"}}))

	c, err := repo.Lookup(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin123", c.Password)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
