package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVote(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		label  string
		method ParseMethod
	}{
		{
			name:   "primary clean",
			text:   "I think Response B is stronger overall.\nVOTE: Response B",
			label:  "Response B",
			method: MatchedPrimary,
		},
		{
			name:   "primary bold",
			text:   "**VOTE:** Response C",
			label:  "Response C",
			method: MatchedPrimary,
		},
		{
			name:   "primary restated, last wins",
			text:   "VOTE: Response A\nActually, on reflection...\nVOTE: Response D",
			label:  "Response D",
			method: MatchedPrimary,
		},
		{
			name:   "primary bare letter",
			text:   "VOTE: B",
			label:  "Response B",
			method: MatchedPrimary,
		},
		{
			name:   "fallback bare token",
			text:   "My pick is Response E, clearly the best.",
			label:  "Response E",
			method: MatchedFallback,
		},
		{
			name:   "default no signal",
			text:   "I can't decide between these options.",
			label:  "",
			method: MatchedDefault,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			label, method := ParseVote(c.text)
			assert.Equal(t, c.label, label)
			assert.Equal(t, c.method, method)
		})
	}
}

func TestParseTournamentWinner(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		label  string
		method ParseMethod
	}{
		{
			name:   "primary clean",
			text:   "Both are close but...\nWINNER: Response A",
			label:  "Response A",
			method: MatchedPrimary,
		},
		{
			name:   "fallback",
			text:   "Response B wins this matchup hands down.",
			label:  "Response B",
			method: MatchedFallback,
		},
		{
			name:   "default",
			text:   "Too close to call.",
			label:  "",
			method: MatchedDefault,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			label, method := ParseTournamentWinner(c.text)
			assert.Equal(t, c.label, label)
			assert.Equal(t, c.method, method)
		})
	}
}
