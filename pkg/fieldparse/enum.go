package fieldparse

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// OtherBucket is the free-text sentinel used by enum sets that accept values
// outside the fixed list.
const OtherBucket = "другое"

const similarityCutoff = 0.6

// MatchEnum maps free text onto one of the allowed values: exact
// case-insensitive match first, substring match second, fuzzy similarity
// third. When the set contains the OtherBucket sentinel, non-empty input that
// matched nothing is bucketed there instead of being discarded.
func MatchEnum(input string, allowed []string) string {
	s := strings.ToLower(Sanitize(input, 0))
	if s == "" {
		return ""
	}

	for _, c := range allowed {
		if s == strings.ToLower(c) {
			return c
		}
	}
	for _, c := range allowed {
		lc := strings.ToLower(c)
		if strings.Contains(lc, s) || strings.Contains(s, lc) {
			return c
		}
	}

	best, bestScore := "", 0.0
	for _, c := range allowed {
		if score := similarity(s, strings.ToLower(c)); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= similarityCutoff {
		return best
	}

	for _, c := range allowed {
		if c == OtherBucket {
			return OtherBucket
		}
	}
	return ""
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
