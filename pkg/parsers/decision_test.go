package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecision(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		decision Decision
		body     string
		method   ParseMethod
	}{
		{
			name:     "primary revise with body",
			text:     "After review I'll change my answer.\nDECISION: REVISE\nThe capital of Australia is Canberra.",
			decision: DecisionRevise,
			body:     "The capital of Australia is Canberra.",
			method:   MatchedPrimary,
		},
		{
			name:     "primary stand",
			text:     "DECISION: STAND",
			decision: DecisionStand,
			body:     "",
			method:   MatchedPrimary,
		},
		{
			name:     "primary merge bold",
			text:     "**DECISION: MERGE**\nBlending both views: ...",
			decision: DecisionMerge,
			body:     "Blending both views: ...",
			method:   MatchedPrimary,
		},
		{
			name:     "fallback mentions revise",
			text:     "I think I should revise my position given the new evidence.",
			decision: DecisionRevise,
			method:   MatchedFallback,
		},
		{
			name:     "default silent reply stands",
			text:     "I have nothing further to add.",
			decision: DecisionStand,
			body:     "",
			method:   MatchedDefault,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			decision, body, method := ParseDecision(c.text)
			assert.Equal(t, c.decision, decision)
			assert.Equal(t, c.method, method)
			if c.method == MatchedPrimary {
				assert.Equal(t, c.body, body)
			}
		})
	}
}
