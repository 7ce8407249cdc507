package parsers

import "strconv"

// ParseNumericEstimate extracts a Delphi panelist's numeric answer (spec.md
// §4.4.5). Primary pattern is an "ESTIMATE:" line; fallback is the first
// signed/decimal number anywhere in the reply; default is a null result
// (ok=false), which excludes the panelist from that round's statistics.
func ParseNumericEstimate(text string) (value float64, ok bool, method ParseMethod) {
	if v, present := MatchPrefixLast(text, "ESTIMATE"); present {
		if s, found := FirstNumber(v); found {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n, true, MatchedPrimary
			}
		}
	}
	if s, found := FirstNumber(text); found {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true, MatchedFallback
		}
	}
	return 0, false, MatchedDefault
}

// ParseQualitativeEstimate extracts a Delphi panelist's qualitative answer.
// Primary pattern is an "ANSWER:" line; default is a null result (ok=false).
func ParseQualitativeEstimate(text string) (value string, ok bool, method ParseMethod) {
	if v, present := MatchPrefixLast(text, "ANSWER"); present {
		v = NormalizeLine(v)
		if v != "" {
			return v, true, MatchedPrimary
		}
	}
	return "", false, MatchedDefault
}
