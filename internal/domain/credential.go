package domain

import "context"

// Credential is one (username, password) pair from the login credential
// table. The password is an opaque secret compared byte-for-byte at login;
// it must never appear in logs or responses.
type Credential struct {
	Username string
	Password string
	// DisplayName is optional metadata shown in the UI after login.
	DisplayName string
}

// CredentialStore is a read-only lookup table of login credentials, loaded
// once at process start. Implementations must be safe for concurrent reads.
//
// Lookup returns a NotFoundError for an unknown username. Callers must treat
// that identically to a wrong password; the distinction stops at the gate.
type CredentialStore interface {
	Lookup(ctx context.Context, username string) (*Credential, error)
}
