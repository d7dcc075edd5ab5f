package contact

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field identifies one of the form inputs.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldContact
	FieldMessage
)

var fieldNames = [...]string{"name", "email", "contact", "message"}

// Input limits, counted in characters.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 100
	MaxContactLength = 100
	MaxMessageLength = 500
)

// AllFields lists every field in form order.
func AllFields() []Field {
	return []Field{FieldName, FieldEmail, FieldContact, FieldMessage}
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	return f >= FieldName && f <= FieldMessage
}

// MaxLength returns the character limit of the field.
func (f Field) MaxLength() int {
	switch f {
	case FieldName:
		return MaxNameLength
	case FieldEmail:
		return MaxEmailLength
	case FieldContact:
		return MaxContactLength
	case FieldMessage:
		return MaxMessageLength
	default:
		return 0
	}
}

// ParseField resolves a field by name. Matching is case-insensitive and
// "phone" is accepted as an alias for the contact field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	case "contact", "phone":
		return FieldContact, nil
	case "message":
		return FieldMessage, nil
	}
	return 0, fmt.Errorf("contact: unknown field %q", name)
}

// Fields holds the current form values.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// Get returns the value of field.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldContact:
		return f.Contact
	case FieldMessage:
		return f.Message
	default:
		return ""
	}
}

func (f *Fields) set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldContact:
		f.Contact = value
	case FieldMessage:
		f.Message = value
	}
}

// Complete reports whether every required field is non-empty.
func (f Fields) Complete() bool {
	return f.Name != "" && f.Email != "" && f.Contact != "" && f.Message != ""
}

// Missing returns the empty fields in form order.
func (f Fields) Missing() []Field {
	var missing []Field
	for _, field := range AllFields() {
		if f.Get(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsZero reports whether every field is empty.
func (f Fields) IsZero() bool {
	return f == Fields{}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
