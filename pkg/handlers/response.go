// Package handlers implements the HTTP API. Handlers decode and
// validate the wire format, delegate to services, and translate
// service errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/clock"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps a service-layer error onto the right status code.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyDecided),
		errors.Is(err, apperrors.ErrLeaveConflict):
		_ = ErrorResponse(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidRole):
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// DecodeJSON decodes a request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// ParseUUID parses a UUID from a request body field.
func ParseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// PathUUID parses a UUID path segment.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter, defaulting
// to the clock's current day.
func QueryDate(r *http.Request, name string, clk clock.Clock) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return clock.DateOf(clk.Now()), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s, want YYYY-MM-DD: %w", name, err)
	}
	return day, nil
}
