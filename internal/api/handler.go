// Package api serves the JSON surface: login, the fixed table fetch, and the
// health probe.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wardgate/internal/domain"
	"wardgate/internal/gateway"
	"wardgate/internal/middleware"
	"wardgate/internal/session"
)

// Handler holds the dependencies of the JSON endpoints.
type Handler struct {
	gate     *session.Gate
	tokens   *session.TokenManager
	sessions domain.SessionStore
	gateway  *gateway.Gateway
	logger   *slog.Logger
}

// NewHandler wires the API handler.
func NewHandler(gate *session.Gate, tokens *session.TokenManager, sessions domain.SessionStore, gw *gateway.Gateway, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gate: gate, tokens: tokens, sessions: sessions, gateway: gw, logger: logger}
}

// Routes mounts the /v1 endpoints on a fresh router. The table endpoint sits
// behind session resolution plus the authenticated-session gate.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(h.tokens, h.sessions))
		r.Use(middleware.RequireAuthenticated)
		r.Get("/table", h.Table)
	})
	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login validates the submitted credentials and returns a session token.
// Unknown username and wrong password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, domain.ErrValidation("username and password are required"))
		return
	}

	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err = h.gate.Authenticate(r.Context(), sess.ID, req.Username, req.Password)
	if err != nil {
		h.logger.Info("login rejected",
			"username", req.Username,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		writeError(w, err)
		return
	}

	token, err := h.tokens.Mint(sess)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("login accepted", "username", sess.Username, "session", sess.ID)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Username: sess.Username})
}

type tableResponse struct {
	Table    string          `json:"table"`
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
}

// Table runs the fixed query for the authenticated session and returns the
// full result.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	sess, _ := domain.SessionFromContext(r.Context())

	result, err := h.gateway.Fetch(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tableResponse{
		Table:    h.gateway.Spec().FullyQualifiedTable(),
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: result.RowCount,
	})
}

// Healthz reports process liveness. It does not touch the warehouse.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
