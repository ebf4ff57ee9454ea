package fieldparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// currencyTokens are removed before strict validation. Longer tokens come
// first so "руб" is consumed before the bare "р".
var currencyTokens = []string{"₸", "руб", "тг", "р", "$", "€", "£"}

var numberPattern = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)

// Number parses a human-typed amount with strict validation. It accepts clean
// numbers only, not arbitrary text that happens to contain digits.
//
// Valid: "15000", "15 000", "1 000 000", "15000.50", "15,5", "15000 тг"
// Invalid: "1+5", "1№2", "abc123", "15 и 20", "15 20", "1 2 3 4 5"
//
// Space-separated thousands grouping must follow the canonical pattern: the
// first group is 1-3 digits, every middle group exactly 3, and a decimal part
// (dot or comma) may only be attached to the last group. Anything else is
// rejected so that ambiguous input like "15 20" never becomes an approximate
// parse.
func Number(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimSpace(s)

	if strings.Contains(s, " ") && !validGrouping(strings.Split(s, " ")) {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")

	if !numberPattern.MatchString(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func validGrouping(parts []string) bool {
	if len(parts) < 2 {
		return true
	}
	if !allDigits(parts[0]) || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1 : len(parts)-1] {
		if !allDigits(p) || len(p) != 3 {
			return false
		}
	}

	last := parts[len(parts)-1]
	if !strings.ContainsAny(last, ".,") {
		return allDigits(last) && len(last) == 3
	}

	decParts := strings.Split(strings.ReplaceAll(last, ",", "."), ".")
	if len(decParts) != 2 {
		return false
	}
	intPart, fracPart := decParts[0], decParts[1]
	if len(parts) > 2 {
		// Multiple thousand groups: the integer part must be a full group.
		if !allDigits(intPart) || len(intPart) != 3 {
			return false
		}
	} else if !allDigits(intPart) || len(intPart) > 3 {
		return false
	}
	return allDigits(fracPart)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
