package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripBold(t *testing.T) {
	assert.Equal(t, "VOTE:", StripBold("**VOTE:**"))
	assert.Equal(t, "VOTE:", StripBold("*VOTE:*"))
	assert.Equal(t, "plain", StripBold("plain"))
}

func TestMatchPrefix_CaseAndWhitespace(t *testing.T) {
	v, ok := MatchPrefix("   vote  :   Response A   \n", "VOTE")
	assert.True(t, ok)
	assert.Equal(t, "Response A", v)

	_, ok = MatchPrefix("no signal here", "VOTE")
	assert.False(t, ok)
}

func TestResponseTokens_CaseInsensitive(t *testing.T) {
	toks := ResponseTokens("response a is good, but RESPONSE B is better")
	assert.Equal(t, []string{"Response A", "Response B"}, toks)
}

func TestFirstNumber(t *testing.T) {
	n, ok := FirstNumber("roughly -3.5 units below target")
	assert.True(t, ok)
	assert.Equal(t, "-3.5", n)

	_, ok = FirstNumber("no digits at all")
	assert.False(t, ok)
}
