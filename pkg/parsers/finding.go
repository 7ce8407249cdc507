package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity is a Red Team / Peer Review finding's severity rating.
type Severity string

const (
	SeverityCritical   Severity = "CRITICAL"
	SeverityHigh       Severity = "HIGH"
	SeverityMedium     Severity = "MEDIUM"
	SeverityLow        Severity = "LOW"
	SeverityMajor      Severity = "MAJOR"
	SeverityMinor      Severity = "MINOR"
	SeveritySuggestion Severity = "SUGGESTION"
)

// Finding is one numbered FINDING n: block.
type Finding struct {
	Number   int
	Severity Severity
	Body     string
}

var findingHeaderRe = regexp.MustCompile(`(?i)^FINDING\s+(\d+)\s*:?\s*(.*)$`)
var severityLineRe = regexp.MustCompile(`(?i)^severity\s*:?\s*(\w+)\s*$`)
var severityInlineRe = regexp.MustCompile(`(?i)severity\s*:?\s*(\w+)`)

// ParseFindings extracts "FINDING n:" blocks from an attacker's or
// reviewer's reply (spec.md §4.4.6 Red Team, §4.4.10 Peer Review). Each
// block runs until the next "FINDING n:" header or end of text. Severity
// defaults to the supplied defaultSev when missing or unrecognized.
func ParseFindings(text string, validSeverities []Severity, defaultSev Severity) []Finding {
	lines := strings.Split(text, "\n")
	var findings []Finding
	var cur *Finding
	var bodyLines []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
		cur.Severity = extractSeverity(cur.Body, validSeverities, defaultSev)
		findings = append(findings, *cur)
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			bodyLines = append(bodyLines, "")
			continue
		}
		if m := findingHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			cur = &Finding{Number: n}
			bodyLines = nil
			if m[2] != "" {
				bodyLines = append(bodyLines, m[2])
			}
			continue
		}
		if cur != nil {
			bodyLines = append(bodyLines, l)
		}
	}
	flush()
	return findings
}

func extractSeverity(body string, valid []Severity, def Severity) Severity {
	for _, l := range strings.Split(body, "\n") {
		if m := severityLineRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			if s, ok := matchSeverity(m[1], valid); ok {
				return s
			}
		}
	}
	if m := severityInlineRe.FindStringSubmatch(body); m != nil {
		if s, ok := matchSeverity(m[1], valid); ok {
			return s
		}
	}
	return def
}

func matchSeverity(tok string, valid []Severity) (Severity, bool) {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	for _, s := range valid {
		if string(s) == tok {
			return s, true
		}
	}
	return "", false
}

// DefenseVerdict is a Red Team defender's per-finding call.
type DefenseVerdict string

const (
	VerdictAccept DefenseVerdict = "ACCEPT"
	VerdictRebut  DefenseVerdict = "REBUT"
)

// Defense is one numbered "RESPONSE TO FINDING n:" block.
type Defense struct {
	Number      int
	Verdict     DefenseVerdict
	RevisedBody string
}

var defenseHeaderRe = regexp.MustCompile(`(?i)^RESPONSE\s+TO\s+FINDING\s+(\d+)\s*:?\s*(.*)$`)
var verdictLineRe = regexp.MustCompile(`(?i)^verdict\s*:?\s*(\w+)\s*$`)

// ParseDefenses extracts "RESPONSE TO FINDING n:" blocks (spec.md §4.4.6).
// Verdict defaults to REBUT — unaddressed findings are never silently
// accepted.
func ParseDefenses(text string) []Defense {
	lines := strings.Split(text, "\n")
	var defenses []Defense
	var cur *Defense
	var bodyLines []string

	flush := func() {
		if cur == nil {
			return
		}
		body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		cur.Verdict = extractDefenseVerdict(body)
		cur.RevisedBody = stripVerdictLine(body)
		defenses = append(defenses, *cur)
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			bodyLines = append(bodyLines, "")
			continue
		}
		if m := defenseHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			cur = &Defense{Number: n}
			bodyLines = nil
			if m[2] != "" {
				bodyLines = append(bodyLines, m[2])
			}
			continue
		}
		if cur != nil {
			bodyLines = append(bodyLines, l)
		}
	}
	flush()
	return defenses
}

func extractDefenseVerdict(body string) DefenseVerdict {
	for _, l := range strings.Split(body, "\n") {
		if m := verdictLineRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			v := strings.ToUpper(strings.TrimSpace(m[1]))
			if v == string(VerdictAccept) {
				return VerdictAccept
			}
			if v == string(VerdictRebut) {
				return VerdictRebut
			}
		}
	}
	return VerdictRebut
}

func stripVerdictLine(body string) string {
	var out []string
	for _, l := range strings.Split(body, "\n") {
		if verdictLineRe.MatchString(strings.TrimSpace(l)) {
			continue
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
