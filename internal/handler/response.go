package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "not_found", "message": "game not found with id 7"}
//
// The frontend always knows which fields to expect, whatever the status code.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/game-portal/internal/apperror"
)

// maxBodyBytes caps request bodies. Catalog records are small.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// MessageResponse acknowledges a write. ID is omitted when there is none.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body. Once Encode writes, the
// headers are on the wire and later changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation      → 400
//	apperror.ErrUnauthenticated → 401
//	apperror.ErrForbidden       → 403
//	apperror.ErrNotFound        → 404
//	apperror.ErrConflict        → 409
//	anything else               → 500
//
// errors.Is walks the whole chain, so a service that wraps an AppError with
// fmt.Errorf("...: %w", err) still maps correctly.
//
// A 500 never echoes the raw error: it might contain SQL or file paths. The
// raw error goes to the log instead.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{Error: errorType, Message: appErr.Message})
			return
		}
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON value from the request body into dst.
// Malformed bodies become a validation error (400).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("JSON inválido: %v", err))
	}
	return nil
}
