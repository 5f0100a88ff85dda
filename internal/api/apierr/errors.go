package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/numduel/numduel/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidDigits    = "INVALID_DIGITS"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSoloGameNotFound = "SOLO_GAME_NOT_FOUND"
	CodeSoloGameOver     = "SOLO_GAME_OVER"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSoloGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSoloGameNotFound, "Solo game not found"}}
	case errors.Is(err, model.ErrSoloGameOver):
		return &httpError{http.StatusConflict, APIError{CodeSoloGameOver, "Solo game already over"}}
	case errors.Is(err, model.ErrInvalidDigits):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDigits, "Sequence must be exactly 5 digits in 0-9"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}
