package simpletemplate

import (
	"github.com/simpletemplate/simpletemplate-go/internal/errors"
)

// Error represents an error that occurred during template processing.
//
// Use %+v to print the error together with the offending template lines.
type Error = errors.Error

// ErrorKind describes the type of error that occurred during template processing.
type ErrorKind = errors.ErrorKind

const (
	ErrSyntax           = errors.ErrSyntax
	ErrUndefinedVar     = errors.ErrUndefinedVar
	ErrInvalidOperation = errors.ErrInvalidOperation
	ErrTemplateNotFound = errors.ErrTemplateNotFound
	ErrBadDelimiters    = errors.ErrBadDelimiters
)

// NewError creates a new error with the given kind and message.
func NewError(kind ErrorKind, msg string) *Error {
	return errors.NewError(kind, msg)
}
