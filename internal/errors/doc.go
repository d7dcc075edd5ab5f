// Package errors provides structured, actionable error messages for the
// contactform command.
//
// Errors carry a code, a category, a short message, an optional detail and
// a suggestion on how to recover:
//
//	err := errors.New("C121").
//	    WithDetail("No contact.json found in /srv/site").
//	    WithSuggestion("Pass --endpoint or create contact.json")
//
//	errors.PrintError(err)
//	// ERROR C121: Configuration not found
//	//
//	//   No contact.json found in /srv/site
//	//
//	//   Hint: Pass --endpoint or create contact.json
//
// # Error Codes
//
//   - C001-C099: form validation (missing fields, invalid email)
//   - C100-C119: transport (network failure, unexpected status)
//   - C120-C129: configuration
//   - C130-C139: interactive prompts
//
// FromContact maps the sentinels of package contact to these codes.
package errors
