// Package labelmap implements the anonymization scheme (spec.md §3, §9)
// that hides model identities behind opaque labels ("Response A", "Response
// B", …) for the duration of a deliberation phase. A Map is a bijection:
// every label resolves to exactly one model, and the reverse mapping is
// never exposed to callers outside the owning runner until a winner is
// declared.
package labelmap

import (
	"fmt"

	"github.com/councilforge/deliberate/pkg/util"
)

// Map is a label <-> model bijection scoped to one anonymization boundary.
// Its zero value is not usable; construct with New or NewShuffled.
type Map struct {
	labelToModel map[string]string
	modelToLabel map[string]string
	order        []string // labels, in display order
}

func labelFor(i int) string {
	// Response A, Response B, ... Response Z, Response AA, ...
	s := ""
	for {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return "Response " + s
}

// New builds a label map over models in the given order: the first model
// becomes "Response A", the second "Response B", and so on.
func New(models []string) *Map {
	m := &Map{
		labelToModel: make(map[string]string, len(models)),
		modelToLabel: make(map[string]string, len(models)),
		order:        make([]string, 0, len(models)),
	}
	for i, model := range models {
		label := labelFor(i)
		m.labelToModel[label] = model
		m.modelToLabel[model] = label
		m.order = append(m.order, label)
	}
	return m
}

// NewShuffled builds a label map over a uniformly random permutation of
// models, via Fisher–Yates. Used whenever a mode needs a second,
// independent anonymization boundary (e.g. Debate's round-2 map) that must
// never equal the first round's assignment in general.
func NewShuffled(models []string) *Map {
	return New(util.ShuffleStrings(models))
}

// Len returns the number of labels in the map.
func (m *Map) Len() int { return len(m.order) }

// Labels returns the labels in display order.
func (m *Map) Labels() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// ModelFor resolves a label to its model id.
func (m *Map) ModelFor(label string) (string, bool) {
	model, ok := m.labelToModel[label]
	return model, ok
}

// LabelFor resolves a model id to its label.
func (m *Map) LabelFor(model string) (string, bool) {
	label, ok := m.modelToLabel[model]
	return label, ok
}

// MustModelFor panics if label is not in the map; reserved for call sites
// that have already validated the label against Labels().
func (m *Map) MustModelFor(label string) string {
	model, ok := m.ModelFor(label)
	if !ok {
		panic(fmt.Sprintf("labelmap: unknown label %q", label))
	}
	return model
}
