package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeDataSource indicates the metrics source is missing or unreadable
	ErrorTypeDataSource ErrorType = "DATA_SOURCE"

	// ErrorTypeSchema indicates required columns are missing or a cell has the wrong type
	ErrorTypeSchema ErrorType = "SCHEMA"

	// ErrorTypeNotFound indicates a facility, date or facility+date pair was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeUnknownColumn indicates a column name outside the table schema
	ErrorTypeUnknownColumn ErrorType = "UNKNOWN_COLUMN"

	// ErrorTypeMalformedLocation indicates a location string that is not "lat,lon"
	ErrorTypeMalformedLocation ErrorType = "MALFORMED_LOCATION"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type        ErrorType
	Message     string
	Suggestions []string
	Err         error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Explain returns the human-readable message, including suggestions when present.
// Callers that hand errors to a language model use this text verbatim.
func (e *AppError) Explain() string {
	if len(e.Suggestions) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s Did you mean: %s?", e.Message, strings.Join(e.Suggestions, ", "))
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDataSource,
		Message: message,
		Err:     err,
	}
}

// NewSchemaError creates a new schema error
func NewSchemaError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeSchema,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewNotFoundErrorWithSuggestions creates a not found error carrying candidate names
func NewNotFoundErrorWithSuggestions(message string, suggestions []string) *AppError {
	return &AppError{
		Type:        ErrorTypeNotFound,
		Message:     message,
		Suggestions: suggestions,
	}
}

// NewUnknownColumnError creates a new unknown column error
func NewUnknownColumnError(column string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnknownColumn,
		Message: fmt.Sprintf("Column '%s' not found. Use get_column_names to see available columns.", column),
	}
}

// NewMalformedLocationError creates a new malformed location error
func NewMalformedLocationError(facility, location string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedLocation,
		Message: fmt.Sprintf("location %q of facility '%s' is not a \"lat,lon\" pair", location, facility),
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// AsAppError unwraps err into an *AppError when one is in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the error type, or ErrorTypeInternal for foreign errors
func TypeOf(err error) ErrorType {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given type
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}
