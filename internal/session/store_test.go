package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardgate/internal/domain"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated)
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMemoryStore_MarkAuthenticated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	got, err := store.MarkAuthenticated(ctx, sess.ID, "admin")
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "admin", got.Username)

	// Idempotent: a second call must not change the recorded username.
	again, err := store.MarkAuthenticated(ctx, sess.ID, "other")
	require.NoError(t, err)
	assert.True(t, again.Authenticated)
	assert.Equal(t, "admin", again.Username)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	// Mutating the returned struct must not authenticate the stored session.
	sess.Authenticated = true

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := store.Create(ctx)
			assert.NoError(t, err)
			ids[i] = sess.ID
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, store.Len())
	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "session IDs must be unique")
		seen[id] = true
	}
}
