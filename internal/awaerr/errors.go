// Package awaerr is the closed error taxonomy for the toolchain (spec.md
// §7): one struct, one Kind enum, everything else a formatting detail.
package awaerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which of the toolchain's failure modes an AwaError
// represents.
type Kind string

const (
	UnknownFormat    Kind = "UnknownFormat"
	NoHeader         Kind = "NoHeader"
	BitUnderflow     Kind = "BitUnderflow"
	UnknownOpcode    Kind = "UnknownOpcode"
	AssemblyError    Kind = "AssemblyError"
	NoSpace          Kind = "NoSpace"
	NotEnoughBubbles Kind = "NotEnoughBubbles"
	UnknownLabel     Kind = "UnknownLabel"
	NoNumber         Kind = "NoNumber"
	OutOfBounds      Kind = "OutOfBounds"
	IOError          Kind = "IOError"
)

// SourceSpan pinpoints a location in an assembly source file.
type SourceSpan struct {
	File   string
	Line   int
	Column int
}

// AwaError is the one error type the toolchain raises: a Kind, a message,
// an optional source span, and structured shortfall fields the interpreter
// fills in so a debugger or CLI can report without re-parsing the message.
type AwaError struct {
	Kind    Kind
	Message string
	Span    SourceSpan

	// Needed/Got record the shortfall for NotEnoughBubbles and OutOfBounds
	// (spec.md §7); zero when not applicable.
	Needed int64
	Got    int64

	cause error
}

func (e *AwaError) Error() string {
	if e.Span.File != "" {
		return fmt.Sprintf("%s: %s (at %s:%d:%d)", e.Kind, e.Message, e.Span.File, e.Span.Line, e.Span.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *AwaError) Unwrap() error { return e.cause }

// New builds an AwaError with no span and no wrapped cause.
func New(kind Kind, message string) *AwaError {
	return &AwaError{Kind: kind, Message: message}
}

// Wrap builds an AwaError that records cause's stack trace via
// github.com/pkg/errors, for failures first observed at an I/O or parse
// boundary.
func Wrap(kind Kind, cause error, message string) *AwaError {
	return &AwaError{Kind: kind, Message: message, cause: errors.WithStack(cause)}
}

// WithSpan attaches a source location and returns the same error.
func (e *AwaError) WithSpan(file string, line, column int) *AwaError {
	e.Span = SourceSpan{File: file, Line: line, Column: column}
	return e
}

// NotEnoughBubblesErr reports a BubbleStore precondition failure that
// needed n bubbles but the chain ran out.
func NotEnoughBubblesErr(needed int64) *AwaError {
	return &AwaError{
		Kind:    NotEnoughBubbles,
		Message: fmt.Sprintf("need %d bubble(s), chain is too short", needed),
		Needed:  needed,
	}
}

// OutOfBoundsErr reports a value outside the range an opcode requires
// (e.g. a Print leaf outside [0, 64)).
func OutOfBoundsErr(got int64) *AwaError {
	return &AwaError{
		Kind:    OutOfBounds,
		Message: fmt.Sprintf("value %d is out of bounds", got),
		Got:     got,
	}
}

// UnknownLabelErr reports a Jump/Label reference with no matching label.
func UnknownLabelErr(n uint8) *AwaError {
	return &AwaError{Kind: UnknownLabel, Message: fmt.Sprintf("no label %d", n)}
}
