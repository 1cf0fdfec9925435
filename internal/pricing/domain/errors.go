package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a pricing-domain error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common domain error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeImportFormat = "IMPORT_FORMAT_ERROR"
	ErrCodeImportRow    = "IMPORT_ROW_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// NewValidationError creates a new validation error
func NewValidationError(message, details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: details,
	}
}

// NewImportFormatError creates a fatal import format error, raised when
// required header columns are missing
func NewImportFormatError(details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeImportFormat,
		Message: "import file has an invalid format",
		Details: details,
	}
}

// NewImportRowError creates a recoverable per-row import error
func NewImportRowError(line int, details string) *DomainError {
	return &DomainError{
		Code:    ErrCodeImportRow,
		Message: fmt.Sprintf("row %d could not be imported", line),
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: fmt.Sprintf("ID: %s", id),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// AsDomainError extracts a domain error from an error chain
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// IsValidationError reports whether err is a validation domain error
func IsValidationError(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Code == ErrCodeValidation
}

// IsImportFormatError reports whether err is a fatal import format error
func IsImportFormatError(err error) bool {
	de := AsDomainError(err)
	return de != nil && de.Code == ErrCodeImportFormat
}
