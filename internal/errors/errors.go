// Package apperrors holds the error types shared by the ulam packages and
// the exit codes they map to. Types that carry a cause implement Unwrap, so
// callers classify with errors.Is and errors.As rather than by message.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorOutput   = 3 // a sink rejected coordinates
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // SIGINT convention
)

// ConfigError reports unusable flags, environment values or requests made
// before any coordinate is produced.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError in the manner of fmt.Sprintf.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// GenerationError is a run that stopped before producing everything it was
// asked for. Producing a coordinate never fails, so Cause is always
// something around it: the run's context or the pipeline.
type GenerationError struct {
	Cause error
}

func (e GenerationError) Error() string { return e.Cause.Error() }
func (e GenerationError) Unwrap() error { return e.Cause }

// OutputError reports that coordinates could not be written to a sink.
type OutputError struct {
	// Sink names the destination that failed, e.g. "csv" or "sqlite".
	Sink  string
	Cause error
}

func (e OutputError) Error() string {
	return fmt.Sprintf("writing %s output: %v", e.Sink, e.Cause)
}

func (e OutputError) Unwrap() error { return e.Cause }

// NewOutputError wraps cause for sink, passing nil through as nil so that
// write paths can return it unconditionally.
func NewOutputError(sink string, cause error) error {
	if cause == nil {
		return nil
	}
	return OutputError{Sink: sink, Cause: cause}
}

// ServerError is a failure of the HTTP server itself, not of a request.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError returns a ServerError; cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError rejects one input field, such as the n parameter of an
// HTTP request. Value is the offending input and may be nil.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
}

// NewValidationError returns a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError prefixes err with a formatted message, keeping it in the chain.
// A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
