package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wardgate/internal/domain"
)

const sessionCookieName = "ui_session"

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := domain.SessionFromContext(r.Context()); ok && sess.Authenticated {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, loginPage(strings.TrimSpace(r.URL.Query().Get("error"))))
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectLoginError(w, r, "invalid form")
		return
	}
	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")
	if username == "" || password == "" {
		h.redirectLoginError(w, r, "username and password are required")
		return
	}

	sess, err := h.Sessions.Create(r.Context())
	if err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Unexpected Error", "Could not start a session."))
		return
	}

	sess, err = h.Gate.Authenticate(r.Context(), sess.ID, username, password)
	if err != nil {
		var invalid *domain.InvalidCredentialsError
		if errors.As(err, &invalid) {
			h.redirectLoginError(w, r, invalid.Error())
			return
		}
		renderHTML(w, http.StatusInternalServerError, errorPage("Unexpected Error", "Login could not be processed."))
		return
	}

	token, err := h.Tokens.Mint(sess)
	if err != nil {
		renderHTML(w, http.StatusInternalServerError, errorPage("Unexpected Error", "Login could not be processed."))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/ui/login", http.StatusSeeOther)
}

func (h *Handler) redirectLoginError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/ui/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// CookieHeaderBridge copies the session cookie into the Authorization header
// so the shared session middleware serves both the API and the UI.
func (h *Handler) CookieHeaderBridge(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if cookie, err := r.Cookie(sessionCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
				r.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cookie.Value))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession redirects browser requests without an authenticated session
// to the login page.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok || !sess.Authenticated {
			http.Redirect(w, r, "/ui/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
