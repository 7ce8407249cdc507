package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// CriterionScore is one row of a reviewer's scoring table (spec.md §4.4.10).
type CriterionScore struct {
	Criterion     string
	Score         float64
	Weight        float64
	Justification string
}

// scoringRowRe matches a markdown table row: | Criterion | Score | Weight | Justification |
var scoringRowRe = regexp.MustCompile(`^\|?\s*([^|]+?)\s*\|\s*([\d.]+)\s*\|\s*([\d.]+)\s*\|\s*([^|]*?)\s*\|?\s*$`)

// ParseScoringTable extracts a reviewer's criterion -> score x weight x
// justification table. Rows that fail to parse a numeric score or weight
// are skipped. A markdown table header/separator row ("---") is ignored.
func ParseScoringTable(text string) []CriterionScore {
	var rows []CriterionScore
	for _, l := range Lines(text) {
		if !strings.Contains(l, "|") {
			continue
		}
		if isTableSeparator(l) || isTableHeader(l) {
			continue
		}
		m := scoringRowRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		score, err1 := strconv.ParseFloat(m[2], 64)
		weight, err2 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		rows = append(rows, CriterionScore{
			Criterion:     strings.TrimSpace(m[1]),
			Score:         score,
			Weight:        weight,
			Justification: strings.TrimSpace(m[4]),
		})
	}
	return rows
}

func isTableSeparator(l string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '|', '-', ' ', ':':
			return -1
		}
		return r
	}, l)
	return stripped == ""
}

func isTableHeader(l string) bool {
	lower := strings.ToLower(l)
	return strings.Contains(lower, "criterion") && strings.Contains(lower, "score")
}

// WeightedMean computes the overall score as the weighted mean of every
// scored criterion (spec.md §4.4.10).
func WeightedMean(rows []CriterionScore) float64 {
	var num, den float64
	for _, r := range rows {
		num += r.Score * r.Weight
		den += r.Weight
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// AgreementLevel is the per-criterion reviewer-agreement bucket, derived
// from the population standard deviation of scores across reviewers.
type AgreementLevel string

const (
	AgreementHigh   AgreementLevel = "High"
	AgreementMedium AgreementLevel = "Medium"
	AgreementLow    AgreementLevel = "Low"
)

// ClassifyAgreement buckets a per-criterion population stddev into
// High (<0.5), Medium (<=1.5), Low (>1.5), per spec.md §4.4.10.
func ClassifyAgreement(popStddev float64) AgreementLevel {
	switch {
	case popStddev < 0.5:
		return AgreementHigh
	case popStddev <= 1.5:
		return AgreementMedium
	default:
		return AgreementLow
	}
}
