// Package errors provides a structured error taxonomy for glmsubset.
//
// Errors produced by the library are one of the typed errors defined
// here (ModelError, DimensionError, ValueError, NotFittedError,
// ValidationError, ConfigError), a sentinel (from this package, or one
// created with New such as enumerator.ErrExhausted) returned bare or
// wrapped with Wrap, or an underlying error wrapped with Wrap/Wrapf.
// All typed errors support Go 1.13+ error wrapping: errors.Is and
// errors.As work through the chain, and Unwrap() exposes the underlying
// cause when there is one.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Callers compare against these with errors.Is.
var (
	// ErrEmptyData is returned when an operation is given an empty matrix or vector.
	ErrEmptyData = errors.New("empty data")
	// ErrDimensionMismatch is returned when two operands disagree on shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSingularMatrix is returned when a required matrix inverse or solve fails.
	ErrSingularMatrix = errors.New("singular matrix")
	// ErrNotFitted is returned when Predict or Transform is called before Fit.
	ErrNotFitted = errors.New("model is not fitted")
	// ErrNotImplemented marks a code path deliberately left unimplemented.
	ErrNotImplemented = errors.New("not implemented")
	// ErrConfiguration is returned for invalid search configuration, detected at entry only.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInterrupted is returned when a search is cancelled before completion.
	ErrInterrupted = errors.New("aborted by user")
)

// ModelError describes a failure during a named operation, optionally
// wrapping an underlying cause (often one of the sentinels above).
type ModelError struct {
	Op      string
	Message string
	Cause   error
}

// NewModelError creates a ModelError. cause may be nil.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Cause: cause}
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *ModelError) Unwrap() error { return e.Cause }

// DimensionError describes a shape mismatch between two operands.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError wrapping ErrDimensionMismatch.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch on axis %d: expected %d, got %d", e.Op, e.Axis, e.Expected, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch) to succeed.
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// ValueError describes an invalid argument value that isn't a shape mismatch.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NotFittedError is returned when a method requiring a fitted model is
// called before Fit has succeeded.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError wrapping ErrNotFitted.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.ModelName, e.Method, ErrNotFitted.Error())
}

// Unwrap allows errors.Is(err, ErrNotFitted) to succeed.
func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// ValidationError describes a semantic validation failure (e.g. a config
// field that is individually well-typed but jointly inconsistent).
type ValidationError struct {
	Op      string
	Field   string
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(op, field, message string) *ValidationError {
	return &ValidationError{Op: op, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Op, e.Field, e.Message)
}

// ConfigError wraps ErrConfiguration with the offending operation and field.
// Raised only by entry-time validation (search.Run's config check,
// enumerator.New, glm.NewDataSet), never after workers start.
type ConfigError struct {
	Op      string
	Field   string
	Message string
}

// NewConfigError creates a ConfigError wrapping ErrConfiguration.
func NewConfigError(op, field, message string) *ConfigError {
	return &ConfigError{Op: op, Field: field, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap allows errors.Is(err, ErrConfiguration) to succeed.
func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// Wrap and Wrapf re-export cockroachdb/errors so callers of this package
// never need to import it directly.
func Wrap(err error, message string) error { return errors.Wrap(err, message) }

// Wrapf re-exports cockroachdb/errors.Wrapf with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New re-exports cockroachdb/errors.New so it carries a stack trace.
func New(message string) error { return errors.New(message) }
