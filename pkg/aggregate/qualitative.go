package aggregate

import "sort"

// QualitativeSummary is one round's statistics over panelists' qualitative
// answers (spec.md §4.4.5 Delphi).
type QualitativeSummary struct {
	Distribution map[string]int
	Mode         string
	AgreementPct float64 // percentage of respondents who chose Mode
	N            int
}

// SummarizeQualitative computes the answer distribution, the modal answer
// (ties broken by first-seen-in-sorted-key order, for determinism), and
// the agreement percentage of respondents on that mode.
func SummarizeQualitative(answers []string) QualitativeSummary {
	dist := make(map[string]int)
	for _, a := range answers {
		dist[a]++
	}
	if len(dist) == 0 {
		return QualitativeSummary{Distribution: dist}
	}

	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mode := keys[0]
	best := dist[mode]
	for _, k := range keys[1:] {
		if dist[k] > best {
			mode = k
			best = dist[k]
		}
	}

	return QualitativeSummary{
		Distribution: dist,
		Mode:         mode,
		AgreementPct: 100 * float64(best) / float64(len(answers)),
		N:            len(answers),
	}
}

// HasConverged reports whether a qualitative round's agreement percentage
// has met or exceeded the convergence threshold tauQual (spec.md §4.4.5).
func (s QualitativeSummary) HasConverged(tauQual float64) bool {
	return s.N > 0 && s.AgreementPct >= tauQual
}
