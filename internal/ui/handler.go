// Package ui renders the browser surface: a login form and the single
// result-table page.
package ui

import (
	"net/http"

	gomponents "maragu.dev/gomponents"

	"wardgate/internal/domain"
	"wardgate/internal/gateway"
	"wardgate/internal/session"
)

type Handler struct {
	Gate       *session.Gate
	Tokens     *session.TokenManager
	Sessions   domain.SessionStore
	Gateway    *gateway.Gateway
	Production bool
}

func NewHandler(gate *session.Gate, tokens *session.TokenManager, sessions domain.SessionStore, gw *gateway.Gateway, production bool) *Handler {
	return &Handler{
		Gate:       gate,
		Tokens:     tokens,
		Sessions:   sessions,
		Gateway:    gw,
		Production: production,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
