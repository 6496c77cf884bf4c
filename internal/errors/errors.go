// Package errors defines the error type shared by the parser and the
// renderer.
package errors

import (
	"fmt"

	"github.com/simpletemplate/simpletemplate-go/syntax"
)

// ErrorKind describes the type of error.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrUndefinedVar
	ErrInvalidOperation
	ErrTemplateNotFound
	ErrBadDelimiters
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrUndefinedVar:
		return "undefined variable"
	case ErrInvalidOperation:
		return "invalid operation"
	case ErrTemplateNotFound:
		return "template not found"
	case ErrBadDelimiters:
		return "bad delimiters"
	default:
		return "error"
	}
}

// Error represents an error that occurred during template processing.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    *syntax.Span
	Name    string // template name
	Source  string // template source, used by %+v
	cause   error
}

func (e *Error) Error() string {
	if e.Name != "" && e.Span != nil {
		return fmt.Sprintf("%s: %s (in %s:%d)", e.Kind, e.Message, e.Name, e.Span.StartLine)
	}
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (at line %d)", e.Kind, e.Message, e.Span.StartLine)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter. %+v renders the error followed by an
// excerpt of the template source around the failing span.
func (e *Error) Format(f fmt.State, verb rune) {
	switch {
	case verb == 'v' && f.Flag('+'):
		formatWithSource(f, e)
	case verb == 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	default:
		_, _ = fmt.Fprint(f, e.Error())
	}
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf creates a new error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithSpan adds span information to an error.
func (e *Error) WithSpan(span syntax.Span) *Error {
	e.Span = &span
	return e
}

// WithName adds the template name to an error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithSource adds the template source to an error.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithCause records the error that triggered this one.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}
