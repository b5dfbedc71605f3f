package ui

import (
	"errors"
	"net/http"

	"wardgate/internal/domain"
)

// Home fetches the fixed table for the signed-in session and renders it.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	sess, _ := domain.SessionFromContext(r.Context())

	result, err := h.Gateway.Fetch(r.Context(), sess)
	if err != nil {
		h.renderServiceError(w, err)
		return
	}

	renderHTML(w, http.StatusOK, tablePage(sess.Username, h.Gateway.Spec().FullyQualifiedTable(), result))
}

func (h *Handler) renderServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."

	var unauthorized *domain.UnauthorizedError
	var connection *domain.ConnectionError
	var query *domain.QueryError
	if errors.As(err, &unauthorized) {
		status = http.StatusUnauthorized
		title = "Not Signed In"
		message = "Sign in to view this page."
	} else if errors.As(err, &connection) {
		status = http.StatusBadGateway
		title = "Warehouse Unavailable"
		message = "The data warehouse could not be reached. Try again shortly."
	} else if errors.As(err, &query) {
		title = "Query Failed"
		message = "The configured table could not be read."
	}

	renderHTML(w, status, errorPage(title, message))
}
