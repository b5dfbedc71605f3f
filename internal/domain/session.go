package domain

import (
	"context"
	"time"
)

// Session tracks whether one caller has passed the login check. A session is
// created unauthenticated and flips to authenticated exactly once, on the
// first successful Authenticate. There is no logout or expiry transition on
// the session itself; destroying the store destroys the sessions.
type Session struct {
	ID            string
	Username      string
	Authenticated bool
	CreatedAt     time.Time
}

// SessionStore holds live sessions for the life of the process.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Create returns a new unauthenticated session with a fresh opaque ID.
	Create(ctx context.Context) (*Session, error)
	// Get returns the session for id, or a NotFoundError.
	Get(ctx context.Context, id string) (*Session, error)
	// MarkAuthenticated records a successful login for the session.
	// Idempotent: repeating it for an already-authenticated session is a no-op.
	MarkAuthenticated(ctx context.Context, id, username string) (*Session, error)
}

type sessionKey struct{}

// WithSession stores the resolved session in the request context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext extracts the session from the context.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
