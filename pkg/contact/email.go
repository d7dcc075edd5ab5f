package contact

import "regexp"

// emailChar excludes "@" and every character a browser treats as white space.
const emailChar = `[^\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`(?i)^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// IsValidEmail reports whether s looks like local@domain.tld.
//
// The check is syntactic only: one or more characters that are neither white
// space nor "@", an "@", more such characters, a dot, and more such
// characters. It accepts many addresses RFC 5322 would reject.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
