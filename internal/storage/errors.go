package storage

import (
	"fmt"
	"strings"
)

// Code identifies the kind of storage failure.
type Code int

// Stable codes - do not change values.
const (
	CodeOutOfRange Code = 2001 // STR2001: write or range outside the store
	CodeContract   Code = 2002 // STR2002: caller broke an internal contract
	CodeComparison Code = 2003 // STR2003: comparison callback failed
	CodeCallback   Code = 2004 // STR2004: element callback failed
)

// String returns the code as "STR2001" format.
func (c Code) String() string {
	return fmt.Sprintf("STR%d", c)
}

// Frame is one entry of a diagnostic backtrace.
type Frame struct {
	Func     string
	Location string
}

// Backtracer supplies the backtrace attached to errors raised at a site.
type Backtracer interface {
	Backtrace() []Frame
}

// BacktracerFunc adapts a function to Backtracer.
type BacktracerFunc func() []Frame

// Backtrace calls f.
func (f BacktracerFunc) Backtrace() []Frame { return f() }

// Error is a storage failure. Out-of-range writes and collaborator failures
// are returned; contract violations are raised with panic.
type Error struct {
	Code      Code
	Message   string
	Site      string  // call site name, empty outside a site
	Backtrace []Frame // top to bottom
	Err       error   // collaborator error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("panic %s: %s", e.Code, e.Message)
}

// Unwrap exposes the collaborator error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Report renders the error with its site and backtrace.
func (e *Error) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s\n", e.Code, e.Message)

	sb.WriteString("at ")
	if e.Site == "" {
		sb.WriteString("<no-site>")
	} else {
		sb.WriteString(e.Site)
	}
	sb.WriteString("\n")

	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.Func, frame.Location)
		}
	}
	return sb.String()
}

func contractError(format string, args ...any) *Error {
	return &Error{Code: CodeContract, Message: fmt.Sprintf(format, args...)}
}

// errorBuilder stamps site name and backtrace on new errors.
type errorBuilder struct {
	site string
	bt   Backtracer
}

func (eb *errorBuilder) makeError(code Code, msg string, cause error) *Error {
	e := &Error{
		Code:    code,
		Message: msg,
		Site:    eb.site,
		Err:     cause,
	}
	if eb.bt != nil {
		e.Backtrace = eb.bt.Backtrace()
	}
	return e
}

func (eb *errorBuilder) outOfRange(index, capacity int) *Error {
	return eb.makeError(CodeOutOfRange, fmt.Sprintf("index %d out of range for capacity %d", index, capacity), nil)
}

func (eb *errorBuilder) indexOutOfLength(index, length int) *Error {
	return eb.makeError(CodeOutOfRange, fmt.Sprintf("index %d out of range for length %d", index, length), nil)
}

func (eb *errorBuilder) rangeOutOfRange(index, count, capacity int) *Error {
	return eb.makeError(CodeOutOfRange, fmt.Sprintf("range [%d, %d) out of range for capacity %d", index, index+count, capacity), nil)
}

func (eb *errorBuilder) contract(format string, args ...any) *Error {
	return eb.makeError(CodeContract, fmt.Sprintf(format, args...), nil)
}

func (eb *errorBuilder) wrap(code Code, cause error) *Error {
	return eb.makeError(code, cause.Error(), cause)
}
