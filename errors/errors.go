package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the type returned to handlers. It carries the HTTP status the
// failure maps to so handlers don't have to translate.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// New creates a new Error with the given message and status code.
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnauthorized)
	InActiveUserError      = New("user inactive", http.StatusUnauthorized)
	ErrServiceUnavailable  = New("service unavailable", http.StatusServiceUnavailable)
)

// GetUniqueContraintError maps a postgres unique-violation to a friendly 400.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return New("email already in use", http.StatusBadRequest)
	case strings.Contains(msg, "username"):
		return New("username already in use", http.StatusBadRequest)
	default:
		return New(msg, http.StatusBadRequest)
	}
}
