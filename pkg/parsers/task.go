package parsers

import (
	"regexp"
	"strings"
)

// Complexity is a Decompose task's estimated difficulty.
type Complexity string

const (
	ComplexityLow    Complexity = "LOW"
	ComplexityMedium Complexity = "MEDIUM"
	ComplexityHigh   Complexity = "HIGH"
)

// Task is one parsed "TASK task_i:" block from a Decompose planner reply
// (spec.md §4.4.13).
type Task struct {
	ID           string
	Title        string
	Description  string
	Dependencies []string
	Complexity   Complexity
	Expertise    string
}

var taskHeaderRe = regexp.MustCompile(`(?i)^TASK\s+(\S+?)\s*:?\s*$`)
var fieldLineRe = regexp.MustCompile(`(?i)^(Title|Description|Dependencies|Complexity|Expertise)\s*:\s*(.*)$`)

// ParseTasks extracts every "TASK task_i:" block from a planner reply.
// Unknown fields are ignored; missing Dependencies defaults to none;
// unrecognized Complexity defaults to MEDIUM.
func ParseTasks(text string) []Task {
	lines := strings.Split(text, "\n")
	var tasks []Task
	var cur *Task

	flush := func() {
		if cur != nil {
			tasks = append(tasks, *cur)
		}
	}

	for _, raw := range lines {
		l := NormalizeLine(raw)
		if l == "" {
			continue
		}
		if m := taskHeaderRe.FindStringSubmatch(l); m != nil {
			flush()
			cur = &Task{ID: m[1], Complexity: ComplexityMedium}
			continue
		}
		if cur == nil {
			continue
		}
		if m := fieldLineRe.FindStringSubmatch(l); m != nil {
			applyTaskField(cur, strings.ToLower(m[1]), strings.TrimSpace(m[2]))
		}
	}
	flush()
	return tasks
}

func applyTaskField(t *Task, field, value string) {
	switch field {
	case "title":
		t.Title = value
	case "description":
		t.Description = value
	case "dependencies":
		t.Dependencies = parseDependencyList(value)
	case "complexity":
		t.Complexity = classifyComplexity(value)
	case "expertise":
		t.Expertise = value
	}
}

func parseDependencyList(value string) []string {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "none") {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func classifyComplexity(v string) Complexity {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case string(ComplexityLow):
		return ComplexityLow
	case string(ComplexityHigh):
		return ComplexityHigh
	default:
		return ComplexityMedium
	}
}

// CleanDependencies drops self-references and references to unknown task
// ids from every task's dependency list, per spec.md §4.4.13.
func CleanDependencies(tasks []Task) []Task {
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		var deps []string
		for _, d := range t.Dependencies {
			if d == t.ID || !known[d] {
				continue
			}
			deps = append(deps, d)
		}
		t.Dependencies = deps
		out[i] = t
	}
	return out
}
