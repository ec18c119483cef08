// Package response writes enveloped JSON responses outside huma handlers,
// such as middleware rejections and router fallbacks.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Version is the envelope format version, shared with the huma transformer.
const Version = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{Version: Version, Success: status < 400, Data: data}, logger)
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	write(w, status, Envelope{Version: Version, Error: message, Code: code}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", message, logger)
}

// TooManyRequests writes a 429 response with a one-second Retry-After.
func TooManyRequests(w http.ResponseWriter, code, message string, logger *slog.Logger) {
	w.Header().Set("Retry-After", "1")
	Error(w, http.StatusTooManyRequests, code, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, "INTERNAL", message, logger)
}

func write(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
