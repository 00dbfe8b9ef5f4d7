package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// Error kinds reported to clients alongside the HTTP status, so callers
// can branch without parsing messages.
const (
	KindUnauthorized        = "unauthorized"
	KindValidation          = "validation_error"
	KindNotFound            = "not_found"
	KindNotFoundOrForbidden = "not_found_or_forbidden"
	KindConflict            = "conflict"
	KindInternal            = "internal_error"
)

// ErrorResponse is the structured error envelope for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("failed to encode JSON response: %v", err)
	}
}

// WriteError writes the error envelope with the given status and kind.
func WriteError(logger *log.Logger, w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: message, Kind: kind})
}

// WriteFieldError writes a validation envelope naming the offending field.
func WriteFieldError(logger *log.Logger, w http.ResponseWriter, field, message string) {
	WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{
		Error: message,
		Kind:  KindValidation,
		Field: field,
	})
}
