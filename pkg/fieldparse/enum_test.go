package fieldparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	testStatuses = []string{"купили", "не купили", "думают", "обмен"}
	testSources  = []string{"Instagram", "2ГИС", "рекомендация", "вывеска", "TikTok", "другое"}
	testClients  = []string{"новый", "повторный", "контрактник/мастер", "оптовик"}
)

func TestMatchEnumExact(t *testing.T) {
	assert.Equal(t, "купили", MatchEnum("купили", testStatuses))
	assert.Equal(t, "Instagram", MatchEnum("instagram", testSources))
	assert.Equal(t, "Instagram", MatchEnum("  INSTAGRAM  ", testSources))
}

func TestMatchEnumSubstring(t *testing.T) {
	assert.Equal(t, "Instagram", MatchEnum("instag", testSources))
	assert.Equal(t, "контрактник/мастер", MatchEnum("мастер", testClients))
}

func TestMatchEnumFuzzy(t *testing.T) {
	// One edit away from "повторный", below the substring tier.
	assert.Equal(t, "повторный", MatchEnum("повторнай", testClients))
	assert.Equal(t, "рекомендация", MatchEnum("рикомендация", testSources))
}

func TestMatchEnumOtherBucket(t *testing.T) {
	// Unmatched free text lands in "другое" when the set allows it.
	assert.Equal(t, "другое", MatchEnum("с улицы зашел", testSources))
	// ...and is dropped when it does not.
	assert.Equal(t, "", MatchEnum("что-то странное", testClients))
}

func TestMatchEnumEmpty(t *testing.T) {
	assert.Equal(t, "", MatchEnum("", testSources))
	assert.Equal(t, "", MatchEnum("   ", testSources))
}
