// internal/app/features/errors/errors.go
//
// Package errors renders service errors as JSON responses:
//
//	invalid input       400
//	NotFoundError       404
//	PersistenceError    500 (and anything unrecognised)
//
// The body is always {"error": "<message>"}.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// ErrorLogger renders errors and logs the server-side ones.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: log}
}

// Render writes err with the status its kind maps to. 5xx responses are
// logged with the request path and any extra fields.
func (l *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, err error, fields ...zap.Field) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && l != nil && l.Log != nil {
		l.Log.Error("request failed",
			append(fields,
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Error(err))...)
	}
	WriteError(w, status, err.Error())
}
