package parsers

import (
	"strconv"
	"strings"
)

// QualConfidence is a coarse three-level confidence label (spec.md §4.4.12).
type QualConfidence string

const (
	ConfidenceLow    QualConfidence = "LOW"
	ConfidenceMedium QualConfidence = "MEDIUM"
	ConfidenceHigh   QualConfidence = "HIGH"
)

// ParseNumericConfidence extracts a confidence score in [0, 1] from free
// text (spec.md §4.4.12 Confidence-Weighted mode). Accepted primary forms:
// "0.82", ".82", "82%", "82", "1.0", "0". Values in (1, 100] are treated as
// percentages and divided by 100; the result is clamped to [0, 1]. Default
// is 0.5 when no number is found.
func ParseNumericConfidence(text string) (score float64, method ParseMethod) {
	if v, ok := MatchPrefixLast(text, "CONFIDENCE"); ok {
		if n, ok := parseConfidenceNumber(v); ok {
			return n, MatchedPrimary
		}
	}
	if n, ok, found := firstConfidenceNumberAnywhere(text); found {
		if ok {
			return n, MatchedFallback
		}
	}
	return 0.5, MatchedDefault
}

func firstConfidenceNumberAnywhere(text string) (score float64, ok bool, found bool) {
	s, hasNum := FirstNumber(text)
	if !hasNum {
		return 0, false, false
	}
	pct := strings.Contains(text, s+"%")
	n, ok := normalizeConfidence(s, pct)
	return n, ok, true
}

func parseConfidenceNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	pct := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(v, "%")
	v = strings.TrimSpace(v)
	return normalizeConfidence(v, pct)
}

func normalizeConfidence(numStr string, pct bool) (float64, bool) {
	n, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, false
	}
	if pct || n > 1 {
		n = n / 100
	}
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return n, true
}

// ParseQualitativeConfidence extracts a LOW/MEDIUM/HIGH confidence label
// (spec.md §4.4.12 fallback mode for models without numeric self-rating).
// Primary pattern is a "CONFIDENCE: LOW|MEDIUM|HIGH" line; default is
// MEDIUM.
func ParseQualitativeConfidence(text string) (level QualConfidence, method ParseMethod) {
	if v, ok := MatchPrefixLast(text, "CONFIDENCE"); ok {
		if lvl, ok := classifyQualConfidence(v); ok {
			return lvl, MatchedPrimary
		}
	}
	upper := strings.ToUpper(text)
	for _, lvl := range []QualConfidence{ConfidenceHigh, ConfidenceLow, ConfidenceMedium} {
		if strings.Contains(upper, string(lvl)) {
			return lvl, MatchedFallback
		}
	}
	return ConfidenceMedium, MatchedDefault
}

func classifyQualConfidence(v string) (QualConfidence, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(v, string(ConfidenceLow)):
		return ConfidenceLow, true
	case strings.HasPrefix(v, string(ConfidenceMedium)):
		return ConfidenceMedium, true
	case strings.HasPrefix(v, string(ConfidenceHigh)):
		return ConfidenceHigh, true
	default:
		return "", false
	}
}
