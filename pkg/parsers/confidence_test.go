package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericConfidence(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		score  float64
		method ParseMethod
	}{
		{"decimal", "CONFIDENCE: 0.82", 0.82, MatchedPrimary},
		{"leading dot", "CONFIDENCE: .82", 0.82, MatchedPrimary},
		{"percent", "CONFIDENCE: 82%", 0.82, MatchedPrimary},
		{"bare large int as percent", "CONFIDENCE: 82", 0.82, MatchedPrimary},
		{"full confidence", "CONFIDENCE: 1.0", 1.0, MatchedPrimary},
		{"zero confidence", "CONFIDENCE: 0", 0.0, MatchedPrimary},
		{"fallback number in prose", "I'd put my confidence around 0.7 on this one.", 0.7, MatchedFallback},
		{"default no number", "I'm fairly confident.", 0.5, MatchedDefault},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			score, method := ParseNumericConfidence(c.text)
			assert.InDelta(t, c.score, score, 0.0001)
			assert.Equal(t, c.method, method)
		})
	}
}

func TestParseQualitativeConfidence(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		level  QualConfidence
		method ParseMethod
	}{
		{"primary high", "CONFIDENCE: HIGH", ConfidenceHigh, MatchedPrimary},
		{"primary low bold", "**CONFIDENCE:** LOW", ConfidenceLow, MatchedPrimary},
		{"fallback mention", "My confidence here is pretty high given the sources.", ConfidenceHigh, MatchedFallback},
		{"default", "Not sure how to rate this.", ConfidenceMedium, MatchedDefault},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			level, method := ParseQualitativeConfidence(c.text)
			assert.Equal(t, c.level, level)
			assert.Equal(t, c.method, method)
		})
	}
}
