package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used to highlight durations. It
// keeps this package free of a dependency on the ui package.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

type plainColors struct{}

func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

// ExitCode classifies err into one of the process exit codes. A nil error
// is ExitSuccess; deadlines win over cancellation when both are wrapped.
func ExitCode(err error) int {
	var (
		outErr OutputError
		cfgErr ConfigError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &outErr):
		return ExitErrorOutput
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleGenerationError writes the status line for a failed run to out and
// returns ExitCode(err). Nothing is written for a nil error.
//
// Parameters:
//   - err: The error that ended the run.
//   - duration: How long the run lasted. Zero omits the "after ..." suffix.
//   - out: Receives the status line.
//   - colors: Highlights the duration. Nil means no colors.
func HandleGenerationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = plainColors{}
	}

	after := ""
	if duration > 0 {
		after = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", after)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), after, colors.Reset())
	case ExitErrorOutput:
		var outErr OutputError
		errors.As(err, &outErr)
		fmt.Fprintf(out, "Status: Failure (Output). %v\n", outErr)
	case ExitErrorConfig:
		var cfgErr ConfigError
		errors.As(err, &cfgErr)
		fmt.Fprintf(out, "Status: Failure (Configuration). %v\n", cfgErr)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
