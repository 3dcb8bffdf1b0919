// Package errors defines the sentinel error set shared across the
// tokenizer, stemmer, index builder, and search CLI, plus a wrapper
// type that carries a process exit code instead of an HTTP status.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrMalformedInput = errors.New("malformed input line")
	ErrNotFound       = errors.New("not found")
	ErrCorruptIndex   = errors.New("corrupt index file")
	ErrVersionSkew    = errors.New("index file version mismatch")
	ErrQuerySyntax    = errors.New("query syntax error")
	ErrInternal       = errors.New("internal error")
	ErrTimeout        = errors.New("operation timed out")
)

// Error-class codes, all 2 and above, that ExitCodeFor and AppError
// use to tell "bad query" from "bad index" from "couldn't even parse
// flags". The commands do not pass them to os.Exit: they exit 1 on
// any failure.
const (
	ExitUsage    = 2
	ExitInput    = 3
	ExitIndex    = 4
	ExitQuery    = 5
	ExitTimeout  = 6
	ExitInternal = 7
)

// AppError wraps a sentinel with a human-readable message and the
// exit code main() should use if the error surfaces all the way up.
type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{Err: sentinel, Message: message, ExitCode: exitCode}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{Err: sentinel, Message: fmt.Sprintf(format, args...), ExitCode: exitCode}
}

// ExitCodeFor classifies err against the sentinel set. The CLI
// commands themselves always exit 1 on failure and 0 on success and do
// not call it; the finer codes let a caller or a test tell "bad query"
// apart from "bad index" without the process exit code needing to
// carry that distinction.
// Errors that don't match any sentinel get ExitInternal.
func ExitCodeFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMalformedInput):
		return ExitInput
	case errors.Is(err, ErrCorruptIndex), errors.Is(err, ErrVersionSkew), errors.Is(err, ErrNotFound):
		return ExitIndex
	case errors.Is(err, ErrQuerySyntax):
		return ExitQuery
	case errors.Is(err, ErrTimeout):
		return ExitTimeout
	default:
		return ExitInternal
	}
}
