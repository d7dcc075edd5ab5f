package contact

import "errors"

var (
	// ErrMissingField blocks a submit while a required field is empty.
	ErrMissingField = errors.New("contact: required field missing")

	// ErrInvalidEmail blocks a submit while the email flag is raised.
	ErrInvalidEmail = errors.New("contact: invalid email")

	// ErrTransport wraps every failure reported by a Transport.
	ErrTransport = errors.New("contact: transport failure")

	// ErrNoTransport is reported when a Controller has no Transport.
	ErrNoTransport = errors.New("contact: no transport configured")
)
