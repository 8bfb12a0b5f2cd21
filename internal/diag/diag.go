// Package diag defines the single error type the assembler pipeline
// surfaces to the user: a message with an optional source line number.
// Every stage returns the first error it hits and the run aborts; the CLI
// prints the rendered message to stderr and exits non-zero.
package diag

import (
	"errors"
	"fmt"
)

// Error is a user-facing assembly error. Line is the 1-based source line
// the error was detected on, or 0 when no line applies (I/O and layout
// errors).
type Error struct {
	Line int
	Msg  string
}

// New returns an Error without a line number.
func New(msg string) *Error {
	return &Error{Msg: msg}
}

// Newf returns a formatted Error without a line number.
func Newf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Error renders the message in the form the CLI prints verbatim.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error at line %d: %s", e.Line, e.Msg)
	}
	return "error: " + e.Msg
}

// At attaches a line number to err. A *Error that already carries a line
// keeps it; any other error is wrapped into a new *Error at that line.
func At(line int, err error) error {
	if err == nil {
		return nil
	}
	var derr *Error
	if errors.As(err, &derr) {
		if derr.Line > 0 {
			return derr
		}
		return &Error{Line: line, Msg: derr.Msg}
	}
	return &Error{Line: line, Msg: err.Error()}
}

// Wrap converts any error into a *Error without a line number, keeping an
// existing *Error as is.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	return &Error{Msg: err.Error()}
}
