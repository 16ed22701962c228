// internal/apperrors/apperrors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	// ErrorTypeValidation marks malformed or out-of-range request
	// parameters, rejected before any oracle call.
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeOracle marks a backend inference failure. Orchestrators
	// catch it at their boundary and degrade, it never reaches callers
	// as an unhandled fault.
	ErrorTypeOracle ErrorType = "oracle_failure"

	// ErrorTypePersistence marks a results-store failure. Logged and
	// ignored by the caller-visible result.
	ErrorTypePersistence ErrorType = "persistence_failure"

	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeInternal ErrorType = "processing_error"
)

// AppError is the application error structure.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports error chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of the given type.
func New(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, originalError error) *AppError {
	return New(ErrorTypeValidation, message, originalError)
}

// NewOracleError creates an oracle failure.
func NewOracleError(message string, originalError error) *AppError {
	return New(ErrorTypeOracle, message, originalError)
}

// NewPersistenceError creates a persistence failure.
func NewPersistenceError(message string, originalError error) *AppError {
	return New(ErrorTypePersistence, message, originalError)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string, originalError error) *AppError {
	return New(ErrorTypeNotFound, message, originalError)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsOracleError reports whether err is an oracle failure.
func IsOracleError(err error) bool {
	return isType(err, ErrorTypeOracle)
}

// IsPersistenceError reports whether err is a persistence failure.
func IsPersistenceError(err error) bool {
	return isType(err, ErrorTypePersistence)
}

// IsNotFoundError reports whether err is a not-found error.
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}
