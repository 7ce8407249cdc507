package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericEstimate(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		value  float64
		ok     bool
		method ParseMethod
	}{
		{"primary", "Given the trends, I'd estimate:\nESTIMATE: 42.5", 42.5, true, MatchedPrimary},
		{"primary negative", "ESTIMATE: -3", -3, true, MatchedPrimary},
		{"fallback bare number", "I think somewhere around 17 units would work.", 17, true, MatchedFallback},
		{"default no number", "I really have no idea on this one.", 0, false, MatchedDefault},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, ok, method := ParseNumericEstimate(c.text)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.method, method)
			if ok {
				assert.InDelta(t, c.value, v, 0.0001)
			}
		})
	}
}

func TestParseQualitativeEstimate(t *testing.T) {
	v, ok, method := ParseQualitativeEstimate("ANSWER: Likely to ship on time.")
	assert.True(t, ok)
	assert.Equal(t, MatchedPrimary, method)
	assert.Equal(t, "Likely to ship on time.", v)

	_, ok, method = ParseQualitativeEstimate("I'm really torn on this.")
	assert.False(t, ok)
	assert.Equal(t, MatchedDefault, method)
}

func TestParseQuestionClass(t *testing.T) {
	class, _, method := ParseQuestionClass("CLASS: numeric\nOPTIONS: 10, 20, 30")
	assert.Equal(t, ClassNumeric, class)
	assert.Equal(t, MatchedPrimary, method)

	class, _, method = ParseQuestionClass("This seems like a qualitative judgment call.")
	assert.Equal(t, ClassQualitative, class)
	assert.Equal(t, MatchedFallback, method)

	class, _, method = ParseQuestionClass("Not sure how to categorize this.")
	assert.Equal(t, ClassQualitative, class)
	assert.Equal(t, MatchedDefault, method)
}
