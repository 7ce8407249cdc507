package prompts

import (
	"testing"

	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/stretchr/testify/assert"
)

func TestRenderHistory(t *testing.T) {
	turns := []deliberation.ConversationTurn{
		{Role: deliberation.RoleUser, Content: "What is the capital of France?"},
		{Role: deliberation.RoleAssistant, Content: "Paris."},
	}
	out := RenderHistory(turns)
	assert.Contains(t, out, "User: What is the capital of France?")
	assert.Contains(t, out, "Assistant: Paris.")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Equal(t, "", RenderHistory(nil))
}

func TestCollectPrompt_NoHistoryReturnsBareQuestion(t *testing.T) {
	assert.Equal(t, "What's next?", CollectPrompt("What's next?", nil))
}

func TestAnonymizedBlock_OrderedByLabels(t *testing.T) {
	block := AnonymizedBlock([]string{"Response A", "Response B"}, map[string]string{
		"Response B": "second",
		"Response A": "first",
	})
	idxA := indexOf(block, "Response A")
	idxB := indexOf(block, "Response B")
	assert.Less(t, idxA, idxB)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestVotePrompt_ContainsInstruction(t *testing.T) {
	p := VotePrompt("Pick one", []string{"Response A"}, map[string]string{"Response A": "x"})
	assert.Contains(t, p, "VOTE: Response X")
}
