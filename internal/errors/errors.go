// Package errors provides the structured error type shared by the stache
// parser, template cache, and renderer.
//
// Every failure is classified by a closed Kind enumeration and carries the
// source position at which it was detected. Errors from lower layers (file
// reads, sink writes, lambda invocations) are wrapped with KindOther,
// KindSourceRead, or KindSinkWrite so that callers can always switch on Kind
// while still unwrapping the underlying cause.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine error.
type Kind int

const (
	// KindOther wraps a lower-level failure with no more specific kind.
	KindOther Kind = iota

	// KindSourceNotFound means no source bytes exist for an identifier.
	KindSourceNotFound
	// KindSourceRead means the byte fetch for an identifier failed.
	KindSourceRead
	// KindOversizedSource means the source exceeds the configured byte cap.
	KindOversizedSource

	// KindExpectedCloseCurlyBrace means a tag or comment is never closed.
	KindExpectedCloseCurlyBrace
	// KindExpectedEndSection means a section never balances back to depth zero.
	KindExpectedEndSection
	// KindUnexpectedEndSection means a close tag appears with no open section.
	KindUnexpectedEndSection
	// KindUnexpectedNewline means a raw newline appears inside an open tag.
	KindUnexpectedNewline
	// KindUnexpectedEOF means the input ends immediately inside a tag.
	KindUnexpectedEOF
	// KindNestingTooDeep means the template exceeds the nesting limit.
	KindNestingTooDeep

	// KindInvalidBindingShape means the top-level render context is not
	// record-shaped.
	KindInvalidBindingShape
	// KindSinkWrite wraps an output sink write failure during rendering.
	KindSinkWrite
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSourceNotFound:
		return "SourceNotFound"
	case KindSourceRead:
		return "SourceReadFailure"
	case KindOversizedSource:
		return "OversizedSource"
	case KindExpectedCloseCurlyBrace:
		return "ExpectedCloseCurlyBrace"
	case KindExpectedEndSection:
		return "ExpectedEndSection"
	case KindUnexpectedEndSection:
		return "UnexpectedEndSection"
	case KindUnexpectedNewline:
		return "UnexpectedNewline"
	case KindUnexpectedEOF:
		return "UnexpectedEOF"
	case KindNestingTooDeep:
		return "NestingTooDeep"
	case KindInvalidBindingShape:
		return "InvalidBindingShape"
	case KindSinkWrite:
		return "SinkWriteFailure"
	default:
		return "Other"
	}
}

// Error is the structured error type used across the engine.
type Error struct {
	Kind     Kind
	Message  string
	Template string // identifier of the template involved, if known
	Line     int    // 1-based; 0 when no source position applies
	Column   int
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s]", e.Kind))

	if e.Template != "" {
		parts = append(parts, "template:"+e.Template)
	}

	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("%d:%d", e.Line, e.Column))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}

	return false
}

// Report renders the diagnostic line written to error sinks.
func (e *Error) Report() string {
	return fmt.Sprintf("[%d:%d] %s\n", e.Line, e.Column, e.Message)
}

// WithTemplate attaches the template identifier the error occurred in.
func (e *Error) WithTemplate(name string) *Error {
	e.Template = name

	return e
}

// NewParse creates a positioned parse error.
func NewParse(kind Kind, message string, line, column int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// NewSource creates a source fetch error for a template identifier.
func NewSource(kind Kind, name, message string, cause error) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		Template: name,
		Cause:    cause,
	}
}

// NewRender creates a render-time error.
func NewRender(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// KindOf returns the kind of err, or KindOther for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindOther
}
