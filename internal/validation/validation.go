package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	stripeSessionPattern = regexp.MustCompile(`^cs_(test|live)_[A-Za-z0-9_]+$`)
)

func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

func IsValidStripeSessionID(value string) bool {
	return stripeSessionPattern.MatchString(value)
}

// ClampString trims surrounding whitespace and cuts the value to at most
// maxLength bytes, backing up so the cut never lands inside a multi-byte
// rune. Callers pass untrusted request fields through this before anything
// else touches them.
func ClampString(input string, maxLength int) string {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) <= maxLength {
		return trimmed
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}
