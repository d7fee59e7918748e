// Package postal implements the postal code acceptance rules shared by the
// admin CRUD surface and the public availability check. Both sides normalize
// with the same function, so a code stored by an administrator always matches
// the same shopper input.
package postal

import (
	"regexp"
	"strings"
)

// The acceptance set is deliberately permissive: a code is valid when any one
// pattern matches. Narrowing the set would reject codes administrators may
// already have stored, so all six patterns are kept.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{5}$`),                           // US ZIP
	regexp.MustCompile(`^\d{5}-\d{4}$`),                     // US ZIP+4
	regexp.MustCompile(`^[A-Z]\d[A-Z] \d[A-Z]\d$`),          // Canadian (A1A 1A1)
	regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]? \d[A-Z]{2}$`), // UK (SW1A 1AA)
	regexp.MustCompile(`^[A-Z0-9]{2,10}$`),                  // generic alphanumeric
	regexp.MustCompile(`^\d{4,6}$`),                         // plain 4-6 digit
}

// Normalize trims surrounding whitespace and upper-cases a raw code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether a raw code is acceptable after normalization.
func Valid(code string) bool {
	normalized := Normalize(code)
	if normalized == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}
