// Package fieldparse holds the pure validators the conversation flow runs
// every answer through: strict number parsing, enum matching with fuzzy
// fallback, text sanitization and phone normalization.
package fieldparse

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Sanitize collapses whitespace, drops characters outside the permitted range
// (ASCII printable, Cyrillic, a short punctuation list) and truncates to
// maxLen runes. maxLen <= 0 disables truncation.
func Sanitize(input string, maxLen int) string {
	s := strings.ReplaceAll(input, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))

	var b strings.Builder
	for _, r := range s {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())

	if maxLen > 0 {
		if runes := []rune(out); len(runes) > maxLen {
			out = string(runes[:maxLen])
		}
	}
	return out
}

func allowedRune(r rune) bool {
	if r >= 0x20 && r <= 0x7e {
		return true
	}
	if r >= 0x0400 && r <= 0x04ff {
		return true
	}
	switch r {
	case '–', '—', '…':
		return true
	}
	return false
}

// PhoneDigits extracts the digits of a phone-like string, keeping at most the
// last 12 when enough digits are present for a full number.
func PhoneDigits(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= 9 && len(digits) > 12 {
		return digits[len(digits)-12:]
	}
	return digits
}

// LastDigits keeps at most the trailing n digits of the input, used for short
// client identifiers.
func LastDigits(input string, n int) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > n {
		return digits[len(digits)-n:]
	}
	return digits
}
