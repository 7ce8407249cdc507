package parsers

import (
	"regexp"
	"strings"
)

// SectionLength is a Blueprint section's target length bucket.
type SectionLength string

const (
	LengthShort  SectionLength = "Short"
	LengthMedium SectionLength = "Medium"
	LengthLong   SectionLength = "Long"
)

// Section is one parsed "SECTION n:" block from an architect's outline.
type Section struct {
	Number         int
	Title          string
	Description    string
	KeyTopics      []string
	Length         SectionLength
	SourceCoverage string
}

var documentTitleRe = regexp.MustCompile(`(?i)^DOCUMENT\s+TITLE\s*:?\s*(.*)$`)
var sectionHeaderRe = regexp.MustCompile(`(?i)^SECTION\s+(\d+)\s*:?\s*(.*)$`)
var keyTopicsHeaderRe = regexp.MustCompile(`(?i)^Key\s+Topics\s*:?\s*(.*)$`)
var lengthFieldRe = regexp.MustCompile(`(?i)^Length\s*:\s*(\w+)\s*$`)
var sourceCoverageFieldRe = regexp.MustCompile(`(?i)^Source\s+Coverage\s*:\s*(.*)$`)
var dashItemRe = regexp.MustCompile(`^[-*]\s*(.+)$`)

// ParseOutline extracts the document title and every "SECTION n:" block
// (spec.md §4.4.9). Policies are applied by the caller: fewer than 3
// sections is an error condition, more than 20 is truncated, and a
// zero-section non-empty outline falls back to a single "Full Document"
// section via FallbackOutline.
func ParseOutline(text string) (title string, sections []Section) {
	lines := strings.Split(text, "\n")
	var cur *Section
	inKeyTopics := false

	flush := func() {
		if cur != nil {
			sections = append(sections, *cur)
		}
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			continue
		}
		if m := documentTitleRe.FindStringSubmatch(l); m != nil {
			title = strings.TrimSpace(m[1])
			continue
		}
		if m := sectionHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			n := atoiSafe(m[1])
			cur = &Section{Number: n, Title: strings.TrimSpace(m[2]), Length: LengthMedium}
			inKeyTopics = false
			continue
		}
		if cur == nil {
			continue
		}
		if m := fieldLineRe.FindStringSubmatch(l); m != nil && strings.EqualFold(m[1], "Description") {
			cur.Description = strings.TrimSpace(m[2])
			inKeyTopics = false
			continue
		}
		if m := keyTopicsHeaderRe.FindStringSubmatch(l); m != nil {
			inKeyTopics = true
			if strings.TrimSpace(m[1]) != "" {
				cur.KeyTopics = append(cur.KeyTopics, splitCSV(m[1])...)
			}
			continue
		}
		if m := lengthFieldRe.FindStringSubmatch(l); m != nil {
			cur.Length = classifySectionLength(m[1])
			inKeyTopics = false
			continue
		}
		if m := sourceCoverageFieldRe.FindStringSubmatch(l); m != nil {
			cur.SourceCoverage = strings.TrimSpace(m[1])
			inKeyTopics = false
			continue
		}
		if inKeyTopics {
			if m := dashItemRe.FindStringSubmatch(l); m != nil {
				cur.KeyTopics = append(cur.KeyTopics, strings.TrimSpace(m[1]))
			}
		}
	}
	flush()
	return title, sections
}

func classifySectionLength(v string) SectionLength {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "short":
		return LengthShort
	case "long":
		return LengthLong
	default:
		return LengthMedium
	}
}

// FallbackOutline wraps raw outline text as a single "Full Document"
// section, used when zero sections parsed from a non-empty outline.
func FallbackOutline(rawText string) []Section {
	return []Section{{
		Number:      1,
		Title:       "Full Document",
		Description: strings.TrimSpace(rawText),
		Length:      LengthLong,
	}}
}

// TruncateSections applies the 20-section cap from spec.md §4.4.9.
func TruncateSections(sections []Section) []Section {
	if len(sections) <= 20 {
		return sections
	}
	return sections[:20]
}
