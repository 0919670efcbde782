package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the
// predefined sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage returns a copy of the domain error carrying a more specific message.
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Err:     domainErr.Err,
	}
}

// Error codes
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicatePhone      = "DUPLICATE_PHONE"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodePartnerNotFound     = "PARTNER_NOT_FOUND"
	CodeExternalSinkFailure = "EXTERNAL_SINK_FAILURE"
	CodeInternal            = "INTERNAL_ERROR"
)

// Predefined domain errors
var (
	// Identity errors
	ErrDuplicatePhone     = NewDomainError(CodeDuplicatePhone, "Phone number already registered")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid credentials")
	ErrUserNotFound       = NewDomainError(CodeUserNotFound, "User not found")

	// Authentication errors
	ErrUnauthorized = NewDomainError(CodeUnauthorized, "No token provided")
	ErrInvalidToken = NewDomainError(CodeInvalidToken, "Invalid token")

	// Validation errors
	ErrValidation = NewDomainError(CodeValidation, "invalid input")

	// Catalog errors
	ErrPartnerNotFound = NewDomainError(CodePartnerNotFound, "Partner not found")

	// System errors
	ErrExternalSinkFailure = NewDomainError(CodeExternalSinkFailure, "external sink unavailable")
	ErrInternal            = NewDomainError(CodeInternal, "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// Credential failures stay 400 so clients cannot tell them from bad input.
	case CodeValidation, CodeDuplicatePhone, CodeInvalidCredentials:
		return http.StatusBadRequest

	case CodeUnauthorized, CodeInvalidToken:
		return http.StatusUnauthorized

	case CodeUserNotFound, CodePartnerNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
