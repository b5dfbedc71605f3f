package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"wardgate/internal/domain"
)

// Gate validates submitted login credentials against the credential store
// and transitions sessions to authenticated. It is the only component
// allowed to flip a session's authenticated flag.
type Gate struct {
	creds    domain.CredentialStore
	sessions domain.SessionStore
}

// NewGate creates a Gate over the given stores.
func NewGate(creds domain.CredentialStore, sessions domain.SessionStore) *Gate {
	return &Gate{creds: creds, sessions: sessions}
}

// Authenticate checks (username, password) and, on success, marks the
// session authenticated and returns it. An unknown username and a wrong
// password both return the same InvalidCredentialsError, and both take the
// same comparison path, so the response carries no user-enumeration signal.
//
// Repeated correct submissions are idempotent: the session simply stays
// authenticated. The password is never logged.
func (g *Gate) Authenticate(ctx context.Context, sessionID, username, password string) (*domain.Session, error) {
	stored := ""
	known := false

	cred, err := g.creds.Lookup(ctx, username)
	switch {
	case err == nil:
		stored = cred.Password
		known = true
	default:
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			// A store failure is not a credential failure.
			return nil, err
		}
	}

	// Compare even for unknown usernames to keep the timing profile flat.
	if !constantTimeEqual(password, stored) || !known {
		return nil, domain.ErrInvalidCredentials("invalid username or password")
	}

	return g.sessions.MarkAuthenticated(ctx, sessionID, username)
}

// constantTimeEqual compares two secrets without leaking where they differ.
// Both sides are hashed first so the comparison length is fixed and the
// stored secret's length is not observable.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
