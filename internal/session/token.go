package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wardgate/internal/domain"
)

// tokenTTL bounds how long a minted session token is accepted on the wire.
// The in-memory session itself has no expiry; this only limits the token.
const tokenTTL = 24 * time.Hour

// TokenManager mints and verifies the HS256 session tokens handed to
// clients after login. The token carries only the opaque session ID; all
// session state stays server-side.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a TokenManager with the given HS256 secret.
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session token secret is required")
	}
	return &TokenManager{secret: []byte(secret)}, nil
}

// Mint signs a token for the session.
func (m *TokenManager) Mint(sess *domain.Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"sub": sess.Username,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the session ID it carries.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("parse claims: unsupported claim type %T", tok.Claims)
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("token has no session id")
	}
	return sid, nil
}
