// Package normalize canonicalizes user input before it is validated or sent
// to a service.
package normalize

import (
	"strings"

	"golang.org/x/text/language"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Key trims a message or template key. Keys are case-sensitive.
func Key(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a query parameter and preserves case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Locale returns the canonical BCP 47 form of s ("fr_ca" -> "fr-CA").
// Unparseable input is returned trimmed so validation can reject it.
func Locale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	return tag.String()
}

// CountryCode trims and uppercases an ISO country code.
func CountryCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
