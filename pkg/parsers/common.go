// Package parsers extracts typed structures from free-form model output
// (spec.md §4.2). Every parser is pure — (text, ctx) -> typed value — and
// follows the same three-tier shape: a primary pattern matching the
// explicitly instructed format, a fallback pattern covering common
// deviations, and a conservative default when both fail. No parser ever
// panics or returns an error; failure is expressed as a documented default.
// Most single-answer parsers also return a ParseMethod (MatchedDefault on
// failure, and an ok flag for the estimate parsers) so callers can set
// parseSuccess; block parsers (claims, findings, ideas, clusters, tasks,
// outline sections, scoring rows) return whatever blocks they could read,
// possibly none.
package parsers

import (
	"regexp"
	"strings"
)

// boldMarkers strips markdown emphasis around keywords so "**VOTE:**" and
// "VOTE:" parse identically.
var boldMarkers = regexp.MustCompile(`\*{1,2}`)

// StripBold removes markdown bold/italic asterisks from s.
func StripBold(s string) string {
	return boldMarkers.ReplaceAllString(s, "")
}

// NormalizeLine trims whitespace and strips bold markers, for matching a
// single candidate line against a prefix pattern.
func NormalizeLine(s string) string {
	return strings.TrimSpace(StripBold(s))
}

// Lines splits text into normalized, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = NormalizeLine(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// responseTokenRe matches a bare "Response X" token (X = one or more
// letters), used as the universal fallback across vote/ranking/tournament
// parsers per spec.md §4.2.
var responseTokenRe = regexp.MustCompile(`(?i)\bResponse\s+([A-Za-z]+)\b`)

// ResponseTokens returns every "Response X" label found in text, in order
// of appearance, normalized to "Response <UPPER>".
func ResponseTokens(text string) []string {
	matches := responseTokenRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, "Response "+strings.ToUpper(m[1]))
	}
	return out
}

// LastResponseToken returns the last "Response X" token in text, or ""
// if none is present.
func LastResponseToken(text string) string {
	tokens := ResponseTokens(text)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// linePrefix builds a case-insensitive "^PREFIX\s*:?\s*(.*)$" matcher
// usable against a single normalized line.
func linePrefix(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `\s*:?\s*(.*)$`)
}

// MatchPrefix returns the trailing capture of the first normalized line in
// text that starts with prefix (case-insensitive, optional colon), and
// whether a match was found.
func MatchPrefix(text, prefix string) (string, bool) {
	re := linePrefix(prefix)
	for _, l := range Lines(text) {
		if m := re.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// MatchPrefixLast is MatchPrefix but returns the last matching line
// instead of the first — used where a model may restate its decision and
// only the final statement governs (e.g. Vote's "VOTE:" line).
func MatchPrefixLast(text, prefix string) (string, bool) {
	re := linePrefix(prefix)
	found := false
	var last string
	for _, l := range Lines(text) {
		if m := re.FindStringSubmatch(l); m != nil {
			last = strings.TrimSpace(m[1])
			found = true
		}
	}
	return last, found
}

// numberRe matches the first signed/decimal number in a string.
var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// FirstNumber returns the first signed or decimal number literal in text.
func FirstNumber(text string) (string, bool) {
	m := numberRe.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}
