package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTallyVotes_ClearWinner(t *testing.T) {
	tally := TallyVotes([]string{"Response A", "Response A", "Response B"})
	assert.Equal(t, []string{"Response A"}, tally.Winners)
	assert.False(t, tally.IsTie())
}

func TestTallyVotes_Tie(t *testing.T) {
	tally := TallyVotes([]string{"Response A", "Response B", "", "Response C"})
	assert.True(t, tally.IsTie())
	assert.ElementsMatch(t, []string{"Response A", "Response B", "Response C"}, tally.Winners)
}

func TestTallyVotes_AllDefaulted(t *testing.T) {
	tally := TallyVotes([]string{"", "", ""})
	assert.Empty(t, tally.Winners)
	assert.False(t, tally.IsTie())
}
