package common

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode categorizes application errors surfaced to API callers.
type ErrorCode string

const (
	ErrCodeValidationInput    ErrorCode = "validation_invalid_input"
	ErrCodeValidationLocation ErrorCode = "validation_invalid_location"

	ErrCodeNotFoundVariety  ErrorCode = "not_found_variety"
	ErrCodeNotFoundSnapshot ErrorCode = "not_found_snapshot"

	ErrCodeUpstreamWeather  ErrorCode = "upstream_weather_unavailable"
	ErrCodeUpstreamGeocoder ErrorCode = "upstream_geocoder_unavailable"

	ErrCodeAssessmentFailed ErrorCode = "assessment_unavailable"

	ErrCodeInternal ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its HTTP status. Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	case strings.HasPrefix(s, "assessment_"):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the error type returned across package boundaries when the
// caller needs a stable code and a human-readable cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
