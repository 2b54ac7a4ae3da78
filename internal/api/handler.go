// Package api provides HTTP handlers for the CareerBot JSON API.
//
//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careerbot-labs/careerbot/internal/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// domainError maps the error taxonomy to HTTP responses. Messages for
// user-facing failures are actionable; store failures deliberately
// carry no internal detail.
func domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		Error(w, http.StatusConflict, "username already taken, pick another")
	case errors.Is(err, domain.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, domain.ErrEmptyMessage):
		Error(w, http.StatusUnprocessableEntity, "message cannot be empty")
	case errors.Is(err, domain.ErrModelUnavailable):
		Error(w, http.StatusServiceUnavailable, "assistant is unavailable, try again")
	case errors.Is(err, domain.ErrStoreUnavailable):
		Error(w, http.StatusInternalServerError, "could not save your message")
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
