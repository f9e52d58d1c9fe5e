package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/astroquant/internal/api/middleware"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/pkg/logger"
)

// Error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimit    = "RATE_LIMIT_EXCEEDED"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeMethodDenied = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// FieldError names one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields ...FieldError) {
	respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetRequestID(r),
			Timestamp: time.Now().UTC(),
			Fields:    fields,
		},
	})
}

// respondServiceError maps domain errors to status codes.
// InputError → 400, ErrNotFound → 404, anything else → 500 (logged).
func respondServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, action string) {
	if ie, ok := contracts.AsInputError(err); ok {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(),
			FieldError{Field: ie.Field, Message: ie.Message})
		return
	}
	if errors.Is(err, contracts.ErrInvalidInput) {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if errors.Is(err, research.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}

	log.WithFields(map[string]interface{}{
		"request_id": middleware.GetRequestID(r),
		"action":     action,
	}).WithError(err).Error("Request failed")
	respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to "+action)
}

// NotFound is the router's fallback for unknown paths
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, CodeNotFound, "No route for "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed is the router's fallback for known paths with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, CodeMethodDenied, "Method "+r.Method+" not allowed on "+r.URL.Path)
}
