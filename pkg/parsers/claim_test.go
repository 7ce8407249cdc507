package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClaims(t *testing.T) {
	text := `CLAIM 1: The bridge was completed in 1937.
Context: Historical background section.
Type: DATE

CLAIM 2: Revenue grew 300% year over year.
Context: Financial summary.
Type: STATISTIC

CLAIM 3: The bridge was completed in 1937.
Context: duplicate restated elsewhere.
Type: DATE`

	claims := ParseClaims(text)
	assert.Len(t, claims, 2) // claim 3 deduped against claim 1 by exact text
	assert.Equal(t, ClaimDate, claims[0].Type)
	assert.Equal(t, ClaimStatistic, claims[1].Type)
}

func TestParseVerifications_MissingClaimSynthesized(t *testing.T) {
	text := `VERIFICATION claim_1: VERIFIED
Evidence: Confirmed via primary source.
Correction: N/A
Confidence: HIGH`

	verifications := ParseVerifications(text, []int{1, 2})
	assert.Len(t, verifications, 2)
	assert.Equal(t, VerdictVerified, verifications[0].Verdict)
	assert.Equal(t, "", verifications[0].Correction)
	assert.Equal(t, ConfidenceHigh, verifications[0].Confidence)

	assert.Equal(t, 2, verifications[1].ClaimNumber)
	assert.Equal(t, VerdictUnverifiable, verifications[1].Verdict)
	assert.Equal(t, "Checker did not address this claim", verifications[1].Evidence)
}

func TestConsensusVerdict(t *testing.T) {
	cases := []struct {
		name     string
		verdicts []Verdict
		want     Verdict
	}{
		{"clear majority verified", []Verdict{VerdictVerified, VerdictVerified, VerdictDisputed}, VerdictVerified},
		{"verified disputed tie", []Verdict{VerdictVerified, VerdictDisputed}, VerdictDisputed},
		{"tie with unverifiable, verified wins", []Verdict{VerdictVerified, VerdictUnverifiable}, VerdictVerified},
		{"tie with unverifiable, disputed wins", []Verdict{VerdictDisputed, VerdictUnverifiable}, VerdictDisputed},
		{"three way tie", []Verdict{VerdictVerified, VerdictDisputed, VerdictUnverifiable}, VerdictDisputed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ConsensusVerdict(c.verdicts))
		})
	}
}
