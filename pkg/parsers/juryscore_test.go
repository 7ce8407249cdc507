package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJuryScorecard_TableForm(t *testing.T) {
	text := `Here is my evaluation:

| Accuracy | 9 |
| Completeness | 7 |
| Clarity | 8 |
| Relevance | 9 |
| Actionability | 6 |

VERDICT: APPROVE`
	sc := ParseJuryScorecard(text)
	assert.Equal(t, 9, *sc.Scores["Accuracy"])
	assert.Equal(t, 7, *sc.Scores["Completeness"])
	assert.Equal(t, 6, *sc.Scores["Actionability"])
	assert.Equal(t, VerdictApprove, sc.Verdict)
	avg, n := sc.Average()
	assert.Equal(t, 5, n)
	assert.InDelta(t, 7.8, avg, 0.001)
}

func TestParseJuryScorecard_ColonForm(t *testing.T) {
	text := "Accuracy: 8/10\nCompleteness: 7\nClarity: 9/10\nRelevance: 10\nActionability: 5\nVERDICT: REVISE"
	sc := ParseJuryScorecard(text)
	assert.Equal(t, 8, *sc.Scores["Accuracy"])
	assert.Equal(t, 10, *sc.Scores["Relevance"])
	assert.Equal(t, VerdictRevise, sc.Verdict)
}

func TestParseJuryScorecard_BoldForm(t *testing.T) {
	text := "**Accuracy**: 7\n**Clarity**: 6\nVERDICT: REJECT"
	sc := ParseJuryScorecard(text)
	assert.Equal(t, 7, *sc.Scores["Accuracy"])
	assert.Nil(t, sc.Scores["Completeness"])
	assert.Equal(t, VerdictReject, sc.Verdict)
}

func TestParseJuryScorecard_OutOfRangeDiscarded(t *testing.T) {
	text := "Accuracy: 15\nCompleteness: 0\nClarity: 5"
	sc := ParseJuryScorecard(text)
	assert.Nil(t, sc.Scores["Accuracy"])
	assert.Nil(t, sc.Scores["Completeness"])
	assert.Equal(t, 5, *sc.Scores["Clarity"])
}

func TestParseJuryVerdict_Default(t *testing.T) {
	assert.Equal(t, VerdictRevise, ParseJuryVerdict("I have no strong opinion either way."))
}

func TestMajorityVerdict(t *testing.T) {
	cases := []struct {
		name     string
		verdicts []JuryVerdict
		want     JuryVerdict
	}{
		{"clear majority", []JuryVerdict{VerdictApprove, VerdictApprove, VerdictApprove, VerdictRevise, VerdictReject}, VerdictApprove},
		{"three way tie", []JuryVerdict{VerdictApprove, VerdictRevise, VerdictReject}, VerdictRevise},
		{"tie involving revise", []JuryVerdict{VerdictApprove, VerdictApprove, VerdictRevise, VerdictRevise}, VerdictRevise},
		{"approve reject tie", []JuryVerdict{VerdictApprove, VerdictApprove, VerdictReject, VerdictReject}, VerdictRevise},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, MajorityVerdict(c.verdicts))
		})
	}
}
