package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScoringTable(t *testing.T) {
	text := `| Criterion | Score | Weight | Justification |
|---|---|---|---|
| Correctness | 8 | 0.4 | Logic holds up under the listed edge cases. |
| Readability | 6 | 0.2 | Some functions are quite long. |
| Test coverage | 9 | 0.4 | Thorough table-driven tests. |`

	rows := ParseScoringTable(text)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Correctness", rows[0].Criterion)
	assert.InDelta(t, 8, rows[0].Score, 0.001)
	assert.InDelta(t, 0.4, rows[0].Weight, 0.001)

	mean := WeightedMean(rows)
	assert.InDelta(t, 8.0, mean, 0.001)
}

func TestClassifyAgreement(t *testing.T) {
	assert.Equal(t, AgreementHigh, ClassifyAgreement(0.2))
	assert.Equal(t, AgreementMedium, ClassifyAgreement(1.0))
	assert.Equal(t, AgreementLow, ClassifyAgreement(2.0))
}
