package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func weightFor(results []WeightedResponse, model string) float64 {
	for _, r := range results {
		if r.Model == model {
			return r.Weight
		}
	}
	return -1
}

func TestSoftmax_HigherConfidenceWinsMoreWeight(t *testing.T) {
	results := Softmax(map[string]float64{"a": 0.9, "b": 0.5}, 1.0)
	assert.Greater(t, weightFor(results, "a"), weightFor(results, "b"))

	var sum float64
	for _, r := range results {
		sum += r.Weight
	}
	assert.InDelta(t, 1.0, sum, 0.0001)
}

func TestSoftmax_ExtremeLowTemperatureUniform(t *testing.T) {
	results := Softmax(map[string]float64{"a": 0.9, "b": 0.1, "c": 0.5}, 0.0)
	for _, r := range results {
		assert.InDelta(t, 1.0/3, r.Weight, 0.0001)
	}
}

func TestSoftmax_OutlierFlagging(t *testing.T) {
	results := Softmax(map[string]float64{"a": 0.97, "b": 0.5, "c": 0.05}, 1.0)
	for _, r := range results {
		switch r.Model {
		case "a", "c":
			assert.True(t, r.IsOutlier, "model %s should be flagged", r.Model)
		case "b":
			assert.False(t, r.IsOutlier)
		}
	}
}

func TestSoftmax_HighTemperatureFlattens(t *testing.T) {
	results := Softmax(map[string]float64{"a": 0.99, "b": 0.01}, 100.0)
	assert.InDelta(t, weightFor(results, "a"), weightFor(results, "b"), 0.05)
}
