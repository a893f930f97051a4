package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// sentinelMappings is checked in order; the first errors.Is match wins.
var sentinelMappings = []struct {
	target error
	code   string
	status int
}{
	{domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{domain.ErrDuplicateEmail, "DUPLICATE_EMAIL", http.StatusConflict},
	{domain.ErrInvalidCode, "INVALID_CODE", http.StatusBadRequest},
	{domain.ErrCodeMismatch, "CODE_MISMATCH", http.StatusUnauthorized},
	{domain.ErrBadPassword, "BAD_PASSWORD", http.StatusUnauthorized},
	{domain.ErrForbidden, "FORBIDDEN", http.StatusForbidden},
	{domain.ErrInvalidStatus, "VALIDATION_FAILED", http.StatusBadRequest},
	{domain.ErrResolutionRequired, "VALIDATION_FAILED", http.StatusBadRequest},
	{domain.ErrValidation, "VALIDATION_FAILED", http.StatusBadRequest},
	{domain.ErrExportFailure, "EXPORT_FAILURE", http.StatusInternalServerError},
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, m := range sentinelMappings {
		if errors.Is(err, m.target) {
			message := m.target.Error()
			// Server-side failures keep their cause out of the response body.
			if m.status < http.StatusInternalServerError {
				message = err.Error()
			}
			return &DomainError{Code: m.code, Message: message, HTTPStatus: m.status, Err: err}
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
