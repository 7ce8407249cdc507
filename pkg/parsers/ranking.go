package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseMethod names which tier of a parser matched.
type ParseMethod string

const (
	MatchedPrimary  ParseMethod = "primary"
	MatchedFallback ParseMethod = "fallback"
	MatchedDefault  ParseMethod = "default"
)

var finalRankingHeaderRe = regexp.MustCompile(`(?i)^final\s+ranking\s*:?\s*$`)
var numberedItemRe = regexp.MustCompile(`^\d+[.)]\s*(.+)$`)

// ParseRanking extracts an ordered list of labels (best first) from a
// Council ranking reply (spec.md §4.4.1). The primary pattern looks for a
// "FINAL RANKING:" header followed by a numbered list of labels; the
// fallback extracts every "Response X" token in order of first
// appearance, de-duplicated, when no header or no numbered items are
// found.
func ParseRanking(text string) (order []string, method ParseMethod) {
	lines := Lines(text)
	for i, l := range lines {
		if !finalRankingHeaderRe.MatchString(l) {
			continue
		}
		var ranked []string
		for _, l2 := range lines[i+1:] {
			m := numberedItemRe.FindStringSubmatch(l2)
			if m == nil {
				if len(ranked) > 0 {
					break
				}
				continue
			}
			if tok := LastResponseToken(m[1]); tok != "" {
				ranked = append(ranked, tok)
			} else if toks := ResponseTokens(m[1]); len(toks) > 0 {
				ranked = append(ranked, toks[0])
			}
		}
		if len(ranked) > 0 {
			return dedupeKeepFirst(ranked), MatchedPrimary
		}
	}

	toks := ResponseTokens(text)
	return dedupeKeepFirst(toks), MatchedFallback
}

func dedupeKeepFirst(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// RankingPosition returns the 1-based position of label in order and true,
// or (0, false) if label is absent (spec.md §4.4.1: "missing entries are dropped from
// numerators and denominators" applies at the aggregation layer, not here —
// this helper just exposes the raw position).
func RankingPosition(order []string, label string) (int, bool) {
	for i, l := range order {
		if l == label {
			return i + 1, true
		}
	}
	return 0, false
}

// RenderRanking re-serializes a ranking back into the primary wire format,
// used to check idempotent re-parsing per spec.md §9.
func RenderRanking(order []string) string {
	var b strings.Builder
	b.WriteString("FINAL RANKING:\n")
	for i, label := range order {
		b.WriteString(strconv.Itoa(i+1) + ". " + label + "\n")
	}
	return b.String()
}
