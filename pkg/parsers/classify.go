package parsers

import "strings"

// QuestionClass is the Delphi facilitator's classification of the
// deliberated question (spec.md §4.4.5).
type QuestionClass string

const (
	ClassNumeric     QuestionClass = "numeric"
	ClassQualitative QuestionClass = "qualitative"
)

// ParseQuestionClass extracts the facilitator's "CLASS: numeric|qualitative"
// verdict (or the looser "TYPE:" alias) and any listed choice options.
// Default on parse failure is qualitative, per spec.md §4.4.5.
func ParseQuestionClass(text string) (class QuestionClass, options []string, method ParseMethod) {
	for _, prefix := range []string{"CLASS", "TYPE", "CLASSIFICATION"} {
		if v, ok := MatchPrefixLast(text, prefix); ok {
			if c, ok := classifyQuestionClass(v); ok {
				return c, parseOptions(text), MatchedPrimary
			}
		}
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "numeric") {
		return ClassNumeric, parseOptions(text), MatchedFallback
	}
	if strings.Contains(lower, "qualitative") {
		return ClassQualitative, parseOptions(text), MatchedFallback
	}
	return ClassQualitative, nil, MatchedDefault
}

func classifyQuestionClass(v string) (QuestionClass, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case strings.HasPrefix(v, string(ClassNumeric)):
		return ClassNumeric, true
	case strings.HasPrefix(v, string(ClassQualitative)):
		return ClassQualitative, true
	default:
		return "", false
	}
}

func parseOptions(text string) []string {
	if v, ok := MatchPrefix(text, "OPTIONS"); ok {
		return splitCSV(v)
	}
	return nil
}
