package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidIdentifier = "INVALID_IDENTIFIER"
	ErrCodeInvalidPage       = "INVALID_PAGE"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeRepositoryFailure = "REPOSITORY_FAILURE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError carrying the same code, so a
// field-specific validation error still matches ErrValidationFailed.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a ValidationFailed error with a specific message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidationFailed, message)
}

// Common domain errors
var (
	ErrInvalidIdentifier = NewDomainError(ErrCodeInvalidIdentifier, "Not a valid product identifier")
	ErrInvalidPage       = NewDomainError(ErrCodeInvalidPage, "Please enter a valid positive integer page")
	ErrValidationFailed  = NewDomainError(ErrCodeValidationFailed, "Product request must have valid category, name, price, and imageUrl")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "No product found")
	ErrRepositoryFailure = NewDomainError(ErrCodeRepositoryFailure, "Product store failure")
)

// RepositoryError wraps a failure of the underlying store.
type RepositoryError struct {
	Op  string
	Err error
}

// NewRepositoryError wraps err as a store failure of operation op.
func NewRepositoryError(op string, err error) error {
	return &RepositoryError{Op: op, Err: err}
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is makes every RepositoryError match ErrRepositoryFailure.
func (e *RepositoryError) Is(target error) bool {
	return target == ErrRepositoryFailure
}

// ErrorCode returns the code of the DomainError in err's chain, or
// ErrCodeInternalError when there is none.
func ErrorCode(err error) string {
	if errors.Is(err, ErrRepositoryFailure) {
		return ErrCodeRepositoryFailure
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
