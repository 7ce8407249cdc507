package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeQualitative(t *testing.T) {
	s := SummarizeQualitative([]string{"yes", "yes", "yes", "no"})
	assert.Equal(t, "yes", s.Mode)
	assert.InDelta(t, 75, s.AgreementPct, 0.001)
	assert.True(t, s.HasConverged(75))
	assert.False(t, s.HasConverged(80))
}

func TestSummarizeQualitative_TieBrokenDeterministically(t *testing.T) {
	s := SummarizeQualitative([]string{"no", "yes"})
	assert.Equal(t, "no", s.Mode) // alphabetically first among tied keys
	assert.InDelta(t, 50, s.AgreementPct, 0.001)
}

func TestSummarizeQualitative_Empty(t *testing.T) {
	s := SummarizeQualitative(nil)
	assert.Equal(t, 0, s.N)
	assert.False(t, s.HasConverged(75))
}
