// Package errors provides the application error taxonomy. Every failure
// surfaced to a caller is an *AppError carrying a stable type, a message,
// an optional cause, and free-form context. Domain sentinel errors from
// pkg/contracts/domain are attached as causes so call sites can match with
// errors.Is without depending on this package's types.
package errors

import (
	"errors"
	"fmt"

	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNoDateColumn     ErrorType = "NO_DATE_COLUMN"
	ErrTypeNoNumericColumn  ErrorType = "NO_NUMERIC_COLUMN"
	ErrTypeInvalidSelection ErrorType = "INVALID_SELECTION"
	ErrTypeEmptySeries      ErrorType = "EMPTY_SERIES"
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeExport           ErrorType = "EXPORT"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for the error taxonomy

// NewNoDateColumnError reports that column detection found no column whose
// cells parse as dates often enough.
func NewNoDateColumnError(columns, rows int) *AppError {
	return NewAppError(ErrTypeNoDateColumn,
		"no column qualifies as a date column", domain.ErrNoDateColumn).
		WithContext("columns", columns).
		WithContext("rows", rows)
}

// NewNoNumericColumnError reports that column detection found no numeric
// column after the date column was set aside.
func NewNoNumericColumnError(columns, rows int) *AppError {
	return NewAppError(ErrTypeNoNumericColumn,
		"no column qualifies as a numeric column", domain.ErrNoNumericColumn).
		WithContext("columns", columns).
		WithContext("rows", rows)
}

// NewInvalidSelectionError reports a manual column override naming a header
// that does not exist. role is "date" or "value".
func NewInvalidSelectionError(role, name string, headers []string) *AppError {
	return NewAppError(ErrTypeInvalidSelection,
		fmt.Sprintf("%s column %q does not exist in the table", role, name),
		domain.ErrInvalidSelection).
		WithContext("role", role).
		WithContext("column", name).
		WithContext("headers", headers)
}

// NewEmptySeriesError reports a KPI computation over zero observations.
func NewEmptySeriesError(r domain.DateRange) *AppError {
	e := NewAppError(ErrTypeEmptySeries,
		"no observations in the selected date range", domain.ErrEmptySeries)
	if !r.From.IsZero() {
		e.WithContext("from", r.From.Format("2006-01-02"))
	}
	if !r.To.IsZero() {
		e.WithContext("to", r.To.Format("2006-01-02"))
	}
	return e
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewExportError creates an export error
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// TypeOf returns the taxonomy type of err, or an empty string when err is
// not an AppError anywhere in its chain.
func TypeOf(err error) ErrorType {
	var app *AppError
	if errors.As(err, &app) {
		return app.Type
	}
	return ""
}

// Is and As re-export the standard helpers so call sites only import this
// package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }
