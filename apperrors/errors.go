// Package apperrors defines the domain error taxonomy. Services return these
// and the HTTP layer translates them directly into responses without
// re-wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError carries a human-readable message and an HTTP status hint.
type DomainError struct {
	Code    int
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// StatusCode returns the HTTP status hint for err, or 500 for anything that
// is not a DomainError.
func StatusCode(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
