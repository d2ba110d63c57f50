package emailaddr

import (
	"regexp"
	"strings"
)

// emailPattern accepts local-part@domain.tld where the final label is
// at least two alphabetic characters. Shape check only, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Normalize trims whitespace and lowercases an address. Callers normalize
// before validating and before using the address as a payout destination.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValid reports whether s looks like an email address.
func IsValid(s string) bool {
	return emailPattern.MatchString(s)
}
