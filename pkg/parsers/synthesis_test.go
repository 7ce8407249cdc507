package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSynthesis_Primary(t *testing.T) {
	text := `SYNTHESIS:
Weighing all responses, the most likely answer is 42, with high-confidence
responses converging tightly around this value.

CONFIDENCE CALIBRATION NOTES:
Response C reported confidence 0.98 but diverged from consensus; treated
as an outlier and down-weighted.`

	synthesis, notes, method := ParseSynthesis(text)
	assert.Equal(t, MatchedPrimary, method)
	assert.Contains(t, synthesis, "most likely answer is 42")
	assert.NotContains(t, synthesis, "CONFIDENCE CALIBRATION")
	assert.Contains(t, notes, "outlier and down-weighted")
}

func TestParseSynthesis_FallbackWholeBody(t *testing.T) {
	text := "The answer is clearly 42 based on convergence across all responses."
	synthesis, notes, method := ParseSynthesis(text)
	assert.Equal(t, MatchedFallback, method)
	assert.Equal(t, text, synthesis)
	assert.Equal(t, "", notes)
}

func TestParseSynthesis_NoNotesSection(t *testing.T) {
	text := "SYNTHESIS:\nJust the synthesis, no calibration notes here."
	synthesis, notes, method := ParseSynthesis(text)
	assert.Equal(t, MatchedPrimary, method)
	assert.Contains(t, synthesis, "Just the synthesis")
	assert.Equal(t, "", notes)
}
