// Package session implements the login gate: session state, the credential
// check, and the signed session tokens used on the HTTP surface.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wardgate/internal/domain"
)

// Compile-time check.
var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore holds live sessions in memory for the life of the process.
// Sessions do not survive a restart and there is no expiry sweep; an
// authenticated session stays authenticated until the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

// Create returns a new unauthenticated session with a fresh UUID.
func (s *MemoryStore) Create(_ context.Context) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return copySession(sess), nil
}

// Get returns the session for id, or a NotFoundError.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound("session %q not found", id)
	}
	return copySession(sess), nil
}

// MarkAuthenticated flips the session to authenticated. Idempotent: an
// already-authenticated session is returned unchanged.
func (s *MemoryStore) MarkAuthenticated(_ context.Context, id, username string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound("session %q not found", id)
	}
	if !sess.Authenticated {
		sess.Authenticated = true
		sess.Username = username
	}
	return copySession(sess), nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// copySession returns a value copy so callers never share the stored struct.
func copySession(s *domain.Session) *domain.Session {
	c := *s
	return &c
}
