package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"wardgate/internal/domain"
	"wardgate/internal/session"
)

// SessionAuth resolves the caller's session from a Bearer token and stores it
// in the request context. Requests without a usable token pass through with no
// session attached; gating is left to RequireAuthenticated or to the UI
// handlers, which redirect instead of returning JSON.
func SessionAuth(tokens *session.TokenManager, sessions domain.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			sid, err := tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := sessions.Get(r.Context(), sid)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), sess)))
		})
	}
}

// RequireAuthenticated rejects requests whose context carries no authenticated
// session. Returns 401 with a JSON body.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok || !sess.Authenticated {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    401,
				"message": "unauthorized: log in to obtain a session token",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
