package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fkhayef/calendar/pkg/apperr"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta contains pagination and other metadata
type Meta struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit,omitempty"`
	Total  int `json:"total"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// JSONWithMeta sends a JSON response with pagination metadata
func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, APIResponse{
		Error: &APIError{Code: code, Message: message},
	})
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// partialFailure is implemented by errors that carry the steps a
// multi-step operation completed before failing.
type partialFailure interface {
	error
	CompletedSteps() []string
	FailedStep() string
}

// FromError maps an engine error to a response using its kind.
func FromError(w http.ResponseWriter, err error) {
	var partial partialFailure
	if errors.As(err, &partial) {
		write(w, http.StatusInternalServerError, APIResponse{
			Error: &APIError{
				Code:    "PARTIAL_FAILURE",
				Message: partial.Error(),
				Details: map[string]interface{}{
					"completed": partial.CompletedSteps(),
					"failed":    partial.FailedStep(),
				},
			},
		})
		return
	}

	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		NotFound(w, err.Error())
	case apperr.ErrPermissionDenied:
		Forbidden(w, err.Error())
	case apperr.ErrValidation:
		BadRequest(w, err.Error())
	case apperr.ErrInvalidTimeRange:
		Error(w, http.StatusUnprocessableEntity, "INVALID_TIME_RANGE", err.Error())
	case apperr.ErrInvalidOperation:
		Conflict(w, err.Error())
	default:
		InternalError(w, "Internal server error")
	}
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}
