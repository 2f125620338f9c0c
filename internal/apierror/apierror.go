// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Error is a service-layer error carrying the HTTP status it maps to.
// Handlers pass these through Respond; anything else becomes a generic 500
// so that repository/driver error text never reaches a client.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Detail: msg} }
func Conflict(msg string) *Error     { return &Error{Status: http.StatusConflict, Detail: msg} }
func Invalid(msg string) *Error      { return &Error{Status: http.StatusBadRequest, Detail: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Detail: msg} }

// Blocked is deliberately uninformative: a blocked client must not be able to
// tell a rate-limit rejection apart from any other access denial.
func Blocked() *Error {
	return &Error{Status: http.StatusForbidden, Detail: "Acceso denegado"}
}

func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: "Error interno del servidor"}
}

// Status resolves the HTTP status for any error: typed errors keep their
// status, everything else is a 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// Envelope resolves the client-visible body for any error.
func Envelope(err error) *APIError {
	var ae *Error
	if errors.As(err, &ae) {
		return New(ae.Detail)
	}
	return New("Error interno del servidor")
}
