package parsers

import (
	"fmt"
	"regexp"
	"strings"
)

// Idea is one parsed "IDEA n: Title\nBody" block (spec.md §4.4.14).
type Idea struct {
	ID    string // model_{i}_idea_{n}
	Label string // "Model A", "Model B", ...
	Title string
	Body  string
}

var ideaHeaderRe = regexp.MustCompile(`(?i)^IDEA\s+(\d+)\s*:?\s*(.*)$`)

// ParseIdeas extracts every "IDEA n: Title" block from one model's
// brainstorm reply. sourceIndex is this model's 0-based position among
// the ideating models, used to build the deterministic id and label.
func ParseIdeas(text string, sourceIndex int) []Idea {
	label := "Model " + string(rune('A'+sourceIndex))
	lines := strings.Split(text, "\n")
	var ideas []Idea
	var cur *Idea
	var bodyLines []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
		ideas = append(ideas, *cur)
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			bodyLines = append(bodyLines, "")
			continue
		}
		if m := ideaHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			cur = &Idea{
				ID:    fmt.Sprintf("model_%d_idea_%s", sourceIndex, m[1]),
				Label: label,
				Title: strings.TrimSpace(m[2]),
			}
			bodyLines = nil
			continue
		}
		if cur != nil {
			bodyLines = append(bodyLines, l)
		}
	}
	flush()
	return ideas
}
