package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/transport"
)

// Category represents the type of error.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryTransport  Category = "transport"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// ContactError is a structured error with a code, explanation, and hint.
type ContactError struct {
	// Code is a unique error identifier (e.g., "C001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ContactError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ContactError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ContactError) WithSuggestion(s string) *ContactError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ContactError) WithDetail(d string) *ContactError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ContactError) Wrap(err error) *ContactError {
	e.Wrapped = err
	return e
}

// New creates a ContactError from a registered error code.
func New(code string) *ContactError {
	template, ok := registry[code]
	if !ok {
		return &ContactError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ContactError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new ContactError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ContactError {
	return &ContactError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ContactError.
func FromError(err error, code string) *ContactError {
	if err == nil {
		return nil
	}
	var ce *ContactError
	if stderrors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}

// FromContact maps an attempt error from package contact to its code.
func FromContact(err error) *ContactError {
	if err == nil {
		return nil
	}
	var statusErr *transport.StatusError
	switch {
	case stderrors.Is(err, contact.ErrMissingField):
		return New("C001").Wrap(err)
	case stderrors.Is(err, contact.ErrInvalidEmail):
		return New("C002").Wrap(err)
	case stderrors.As(err, &statusErr):
		return New("C101").Wrap(err)
	case stderrors.Is(err, contact.ErrTransport):
		return New("C100").Wrap(err)
	default:
		return FromError(err, "C100")
	}
}
