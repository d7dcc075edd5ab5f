package transport

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer rewrites a field value before submission.
type Sanitizer interface {
	Sanitize(s string) string
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(s string) string

func (f SanitizerFunc) Sanitize(s string) string {
	return f(s)
}

// StripHTML removes every HTML element and returns plain text. Entities the
// policy escapes are decoded again so "&" stays "&".
func StripHTML() Sanitizer {
	policy := bluemonday.StrictPolicy()
	return SanitizerFunc(func(s string) string {
		return html.UnescapeString(policy.Sanitize(s))
	})
}
