package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wealthpath/loantape/internal/apperror"
	"github.com/wealthpath/loantape/internal/logger"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondAppError writes a JSON error response from an AppError.
// It extracts the status code and message from the error.
func respondAppError(w http.ResponseWriter, err *apperror.AppError) {
	resp := ErrorResponse{
		Error: err.Message,
		Field: err.Field,
	}
	respondJSON(w, err.StatusCode, resp)
}

// respondServiceError maps a service error to a response. Server-side failures
// are logged and reported as internal errors.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if status := apperror.GetStatusCode(err); status < http.StatusInternalServerError {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			respondAppError(w, appErr)
			return
		}
		respondError(w, status, apperror.GetMessage(err))
		return
	}

	logger.FromContext(r.Context()).Error("Request failed",
		"path", r.URL.Path,
		"error", err.Error(),
	)
	respondAppError(w, apperror.Internal(err))
}

// respondFile writes a binary attachment.
func respondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(r *http.Request, name string, defaultValue int64) (int64, *apperror.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationError(name, name+" must be an integer")
	}
	return v, nil
}
