package aggregate

import "math"

// WeightedResponse pairs a model's confidence with its softmax weight and
// an outlier flag (spec.md §4.4.12: confidence >= 0.95 or <= 0.1 is an
// outlier, flagged to the synthesizer for skeptical weighting).
type WeightedResponse struct {
	Model      string
	Confidence float64
	Weight     float64
	IsOutlier  bool
}

// Softmax computes softmax-with-temperature weights over a set of
// per-model confidences (spec.md §4.4.12). A temperature below 0.001 falls
// back to a uniform distribution (the temperature is too close to a
// divide-by-zero to trust). Single-input callers should use the mode
// runner's single-answer shortcut instead of this function.
func Softmax(confidences map[string]float64, temperature float64) []WeightedResponse {
	models := make([]string, 0, len(confidences))
	for m := range confidences {
		models = append(models, m)
	}

	if temperature < 0.001 {
		uniform := 1.0 / float64(len(models))
		out := make([]WeightedResponse, 0, len(models))
		for _, m := range models {
			c := confidences[m]
			out = append(out, WeightedResponse{Model: m, Confidence: c, Weight: uniform, IsOutlier: isOutlierConfidence(c)})
		}
		return out
	}

	maxC := math.Inf(-1)
	for _, c := range confidences {
		if c > maxC {
			maxC = c
		}
	}

	exps := make(map[string]float64, len(models))
	var sum float64
	for _, m := range models {
		e := math.Exp((confidences[m] - maxC) / temperature)
		exps[m] = e
		sum += e
	}

	out := make([]WeightedResponse, 0, len(models))
	for _, m := range models {
		c := confidences[m]
		out = append(out, WeightedResponse{
			Model:      m,
			Confidence: c,
			Weight:     exps[m] / sum,
			IsOutlier:  isOutlierConfidence(c),
		})
	}
	return out
}

func isOutlierConfidence(c float64) bool {
	return c >= 0.95 || c <= 0.1
}
