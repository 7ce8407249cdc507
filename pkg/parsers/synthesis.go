package parsers

import "strings"

// ParseSynthesis splits a Confidence-Weighted synthesizer's reply into the
// synthesis body and calibration notes (spec.md §4.4.12). Primary pattern
// looks for "SYNTHESIS:" and "CONFIDENCE CALIBRATION NOTES:" headers;
// fallback treats the entire body as the synthesis with no notes.
func ParseSynthesis(text string) (synthesis, notes string, method ParseMethod) {
	synIdx, synLine := findHeaderLine(text, "SYNTHESIS")
	notesIdx, notesLine := findHeaderLine(text, "CONFIDENCE CALIBRATION NOTES")

	if synIdx == -1 {
		return strings.TrimSpace(text), "", MatchedFallback
	}

	lines := strings.Split(text, "\n")
	var synEnd int
	if notesIdx != -1 && notesIdx > synIdx {
		synEnd = notesIdx
	} else {
		synEnd = len(lines)
	}
	synthesis = strings.TrimSpace(strings.Join(append([]string{synLine}, lines[synIdx+1:synEnd]...), "\n"))

	if notesIdx != -1 {
		notes = strings.TrimSpace(strings.Join(append([]string{notesLine}, lines[notesIdx+1:]...), "\n"))
	}
	return synthesis, notes, MatchedPrimary
}

// findHeaderLine returns the line index of the first line matching
// "PREFIX:" (case-insensitive) and the trailing content on that same
// line, or (-1, "") if absent.
func findHeaderLine(text, prefix string) (int, string) {
	lines := strings.Split(text, "\n")
	re := linePrefix(prefix)
	for i, raw := range lines {
		l := NormalizeLine(raw)
		if m := re.FindStringSubmatch(l); m != nil {
			return i, strings.TrimSpace(m[1])
		}
	}
	return -1, ""
}
