package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
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

// Error codes shared by services, the operation queue and the validation core.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeStateConflict    = "STATE_CONFLICT"
	CodeNotFound         = "NOT_FOUND"
	CodeTimeout          = "TIMEOUT"
	CodeBypassExpired    = "BYPASS_EXPIRED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewStateConflict signals an illegal state transition, e.g. closing an
// already-closed case. Never retried.
func NewStateConflict(message string, details map[string]any) error {
	return NewDomainError(CodeStateConflict, message, http.StatusConflict, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewTimeout signals a queue-enforced operation timeout.
func NewTimeout(message string, details map[string]any) error {
	return NewDomainError(CodeTimeout, message, http.StatusGatewayTimeout, details)
}

// NewBypassExpired signals a bypass confirmation with no live pending entry.
func NewBypassExpired(message string) error {
	return NewDomainError(CodeBypassExpired, message, http.StatusGone, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
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
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

func hasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// IsValidationFailed reports whether err is a blocking validation outcome.
func IsValidationFailed(err error) bool { return hasCode(err, CodeValidationFailed) }

// IsStateConflict reports whether err is an illegal state transition.
func IsStateConflict(err error) bool { return hasCode(err, CodeStateConflict) }

// IsNotFound reports whether err is a missing-entity outcome.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsTimeout reports whether err is a queue operation timeout.
func IsTimeout(err error) bool { return hasCode(err, CodeTimeout) }

// IsBypassExpired reports whether err is an expired or absent bypass confirmation.
func IsBypassExpired(err error) bool { return hasCode(err, CodeBypassExpired) }
