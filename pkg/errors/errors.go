// Package errors provides custom error types for alekit.
// These errors enable programmatic error checking so callers can tell a
// fatal document failure apart from a macro failure that only affects one rule.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for alekit
var (
	// ErrFormat indicates a malformed or unreadable ALE document
	ErrFormat = errors.New("invalid ALE format")

	// ErrMacro indicates a malformed macro action
	ErrMacro = errors.New("invalid macro action")

	// ErrData indicates that an action referenced data that does not exist
	ErrData = errors.New("data error")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

// FormatError represents a structural failure while reading or writing an ALE document.
type FormatError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("ALE format error in %s at line %d: %s", e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("ALE format error in %s: %s", e.Path, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("ALE format error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("ALE format error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NewFormatError creates a new FormatError
func NewFormatError(path string, line int, message string) *FormatError {
	return &FormatError{Path: path, Line: line, Message: message}
}

// MacroError represents a malformed macro action: unknown keyword, wrong
// operand count or an operand that cannot be compiled.
type MacroError struct {
	Line    int    // line in the action list, 0 for literal actions
	Action  string // action keyword or description
	Message string
	Err     error
}

// Error implements the error interface
func (e *MacroError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("macro error at line %d (%s): %s", e.Line, e.Action, e.Message)
	}
	if e.Action != "" {
		return fmt.Sprintf("macro error (%s): %s", e.Action, e.Message)
	}
	return fmt.Sprintf("macro error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *MacroError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MacroError) Is(target error) bool {
	return target == ErrMacro
}

// NewMacroError creates a new MacroError
func NewMacroError(line int, action, message string) *MacroError {
	return &MacroError{Line: line, Action: action, Message: message}
}

// DataError represents a reference to a column that does not exist, or an
// edit that would break the table's column rules.
type DataError struct {
	Column  string
	Action  string
	Message string
}

// Error implements the error interface
func (e *DataError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("data error in %s for column %q: %s", e.Action, e.Column, e.Message)
	}
	return fmt.Sprintf("data error for column %q: %s", e.Column, e.Message)
}

// Is implements errors.Is support
func (e *DataError) Is(target error) bool {
	return target == ErrData
}

// NewDataError creates a new DataError
func NewDataError(column, message string) *DataError {
	return &DataError{Column: column, Message: message}
}

// NewMissingColumnError creates a DataError for a column that is not in the table
func NewMissingColumnError(column string) *DataError {
	return &DataError{Column: column, Message: "column not in table"}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents an advisory validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "rename", "watch"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsFormat checks if an error is an ALE format error
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsMacro checks if an error is a macro error
func IsMacro(err error) bool {
	return errors.Is(err, ErrMacro)
}

// IsData checks if an error is a data error
func IsData(err error) bool {
	return errors.Is(err, ErrData)
}

// IsIsolated reports whether a macro step failing with err should be
// logged and skipped rather than halting the run.
func IsIsolated(err error) bool {
	return IsMacro(err) || IsData(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapFormat wraps an error as a FormatError for the given path
func WrapFormat(path string, err error) error {
	if err == nil {
		return nil
	}
	return &FormatError{Path: path, Message: err.Error(), Err: err}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
