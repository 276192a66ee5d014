// Package handler contains the HTTP handlers. Handlers parse requests, call
// the service layer, and translate apperror kinds into status codes; no
// business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/eventbook/internal/apperror"
)

// ErrorResponse is the error body shape shared by every endpoint.
type ErrorResponse struct {
	Error   string   `json:"error"`             // stable machine-readable kind
	Message string   `json:"message"`           // human-readable description
	Details []string `json:"details,omitempty"` // ordered field messages (validation only)
}

// writeJSON sends a JSON response. Headers and status go out before the
// body; an encode failure after that can only be logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorStatus maps an error kind to its HTTP status and stable kind string.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperror.ErrCredentialInvalid):
		return http.StatusUnauthorized, "credential_invalid"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, apperror.ErrSelfRegistration):
		return http.StatusForbidden, "self_registration"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrNotRegistered):
		return http.StatusNotFound, "not_registered"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrAlreadyRegistered):
		return http.StatusConflict, "already_registered"
	case errors.Is(err, apperror.ErrEventPast):
		return http.StatusConflict, "event_past"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError translates a service error into the HTTP response. Business
// outcomes pass their message through; anything unexpected is logged
// server-side and surfaced as a generic internal error without detail.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, kind := errorStatus(err)

	var appErr *apperror.AppError
	if kind != "internal" && errors.As(err, &appErr) {
		writeJSON(w, status, ErrorResponse{
			Error:   kind,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}

	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal",
		Message: "an internal error occurred",
	})
}
