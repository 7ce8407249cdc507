package aggregate

import (
	"github.com/montanaflynn/stats"
)

// NumericSummary is one round's statistics over panelists' numeric
// estimates (spec.md §4.4.5 Delphi).
type NumericSummary struct {
	Mean   float64
	Median float64
	Stddev float64 // population standard deviation
	Min    float64
	Max    float64
	CV     float64 // coefficient of variation = stddev / |mean|, 0 when mean is 0
	N      int
}

// SummarizeNumeric computes mean, median, population stddev, min, max, and
// coefficient of variation over a round's non-null numeric estimates.
// Panics never occur: an empty input yields a zero-value summary.
func SummarizeNumeric(values []float64) NumericSummary {
	if len(values) == 0 {
		return NumericSummary{}
	}
	data := stats.LoadRawData(values)
	mean, _ := data.Mean()
	median, _ := data.Median()
	popStddev, _ := data.StandardDeviationPopulation()
	min, _ := data.Min()
	max, _ := data.Max()

	cv := 0.0
	if mean != 0 {
		cv = popStddev / absFloat(mean)
	}

	return NumericSummary{
		Mean:   mean,
		Median: median,
		Stddev: popStddev,
		Min:    min,
		Max:    max,
		CV:     cv,
		N:      len(values),
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// HasConverged reports whether a numeric round's coefficient of variation
// has fallen below the convergence threshold tauNum (spec.md §4.4.5).
func (s NumericSummary) HasConverged(tauNum float64) bool {
	return s.N > 0 && s.CV < tauNum
}
