package parsers

import "strings"

// Decision is a Debate revision verdict (spec.md §4.4.4).
type Decision string

const (
	DecisionRevise Decision = "REVISE"
	DecisionStand  Decision = "STAND"
	DecisionMerge  Decision = "MERGE"
)

// ParseDecision extracts a debater's revision decision and the revised body
// that follows it, if any. Primary pattern is a "DECISION: REVISE|STAND|MERGE"
// line; fallback scans for a bare REVISE, MERGE or STAND token; a reply
// containing none of those tokens defaults to STAND with an empty body
// (spec.md §4.4.4: "a model that ignores the instruction is assumed to stand
// by its prior answer").
func ParseDecision(text string) (decision Decision, revisedBody string, method ParseMethod) {
	if v, ok := MatchPrefixLast(text, "DECISION"); ok {
		if d, ok := classifyDecision(v); ok {
			return d, bodyAfterDecisionLine(text), MatchedPrimary
		}
	}
	upper := strings.ToUpper(text)
	for _, d := range []Decision{DecisionRevise, DecisionMerge, DecisionStand} {
		if strings.Contains(upper, string(d)) {
			return d, bodyAfterDecisionLine(text), MatchedFallback
		}
	}
	return DecisionStand, "", MatchedDefault
}

func classifyDecision(v string) (Decision, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(v, string(DecisionRevise)):
		return DecisionRevise, true
	case strings.HasPrefix(v, string(DecisionStand)):
		return DecisionStand, true
	case strings.HasPrefix(v, string(DecisionMerge)):
		return DecisionMerge, true
	default:
		return "", false
	}
}

// bodyAfterDecisionLine returns everything after the (last) "DECISION:" line,
// trimmed, for use as the revised answer body. Returns "" when the decision
// line is the last line of the reply.
func bodyAfterDecisionLine(text string) string {
	lines := strings.Split(text, "\n")
	lastIdx := -1
	for i, l := range lines {
		if looksLikeDecisionLine(l) {
			lastIdx = i
		}
	}
	if lastIdx == -1 || lastIdx+1 >= len(lines) {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[lastIdx+1:], "\n"))
}

func looksLikeDecisionLine(l string) bool {
	v, ok := MatchPrefix(l, "DECISION")
	if !ok {
		return false
	}
	_, ok = classifyDecision(v)
	return ok
}
