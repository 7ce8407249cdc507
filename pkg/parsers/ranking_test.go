package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRanking_Primary(t *testing.T) {
	text := `Here's my assessment of each response.

FINAL RANKING:
1. Response C
2. Response A
3. Response B`

	order, method := ParseRanking(text)
	assert.Equal(t, MatchedPrimary, method)
	assert.Equal(t, []string{"Response C", "Response A", "Response B"}, order)
}

func TestParseRanking_PrimaryBoldHeader(t *testing.T) {
	text := "**FINAL RANKING:**\n1) Response B\n2) Response A"
	order, method := ParseRanking(text)
	assert.Equal(t, MatchedPrimary, method)
	assert.Equal(t, []string{"Response B", "Response A"}, order)
}

func TestParseRanking_FallbackBareTokens(t *testing.T) {
	text := "I'd say Response B edges out Response A, with Response C trailing."
	order, method := ParseRanking(text)
	assert.Equal(t, MatchedFallback, method)
	assert.Equal(t, []string{"Response B", "Response A", "Response C"}, order)
}

func TestParseRanking_Idempotent(t *testing.T) {
	order := []string{"Response A", "Response B", "Response C"}
	rendered := RenderRanking(order)
	reparsed, method := ParseRanking(rendered)
	assert.Equal(t, MatchedPrimary, method)
	assert.Equal(t, order, reparsed)
}

func TestRankingPosition(t *testing.T) {
	order := []string{"Response A", "Response B"}
	pos, ok := RankingPosition(order, "Response B")
	assert.True(t, ok)
	assert.Equal(t, 2, pos)

	_, ok = RankingPosition(order, "Response Z")
	assert.False(t, ok)
}
