package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"wardgate/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var invalidCreds *domain.InvalidCredentialsError
	var unauthorized *domain.UnauthorizedError
	var connection *domain.ConnectionError
	var query *domain.QueryError
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError

	switch {
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &connection):
		return http.StatusBadGateway
	case errors.As(err, &query):
		return http.StatusInternalServerError
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the error text safe to hand to the caller. Warehouse
// failures are reported opaquely so credential and endpoint details from
// driver errors never reach the client.
func clientMessage(err error) string {
	var connection *domain.ConnectionError
	var query *domain.QueryError
	switch {
	case errors.As(err, &connection):
		return "warehouse unavailable"
	case errors.As(err, &query):
		return "query failed"
	default:
		return err.Error()
	}
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	writeJSON(w, status, errorResponse{Code: status, Message: clientMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
