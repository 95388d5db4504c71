package shared

import "errors"

// Error codes shared by every bounded context
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeCurrencyMismatch    = "CURRENCY_MISMATCH"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Is matches domain errors by code so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports input rejected before any mutation happens
func NewValidationError(field, message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message, Field: field}
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(resource, message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message, Field: resource}
}

// NewConflictError reports an operation rejected because of existing state
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewInvalidStateError reports a disallowed state transition
func NewInvalidStateError(message string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict            = NewDomainError(CodeConflict, "Resource conflicts with existing state")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrCurrencyMismatch    = NewDomainError(CodeCurrencyMismatch, "Currency mismatch")
)

// CodeOf returns the domain code carried by err, or "" when err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidationError reports whether err carries CodeValidation
func IsValidationError(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFoundError reports whether err carries CodeNotFound
func IsNotFoundError(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflictError reports whether err carries CodeConflict or CodeConcurrencyConflict
func IsConflictError(err error) bool {
	code := CodeOf(err)
	return code == CodeConflict || code == CodeConcurrencyConflict
}
