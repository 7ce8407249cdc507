package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutline(t *testing.T) {
	text := `DOCUMENT TITLE: Migrating to Event-Driven Architecture

SECTION 1: Motivation
Description: Why the current architecture is hitting limits.
Key Topics:
- Coupling
- Scaling bottlenecks
Length: Short
Source Coverage: background research only

SECTION 2: Proposed Design
Description: The target event-driven design.
Key Topics:
- Event bus
- Schema registry
Length: Long
Source Coverage: design docs, RFC`

	title, sections := ParseOutline(text)
	assert.Equal(t, "Migrating to Event-Driven Architecture", title)
	assert.Len(t, sections, 2)
	assert.Equal(t, "Motivation", sections[0].Title)
	assert.Equal(t, []string{"Coupling", "Scaling bottlenecks"}, sections[0].KeyTopics)
	assert.Equal(t, LengthShort, sections[0].Length)
	assert.Equal(t, LengthLong, sections[1].Length)
}

func TestTruncateSections(t *testing.T) {
	sections := make([]Section, 25)
	for i := range sections {
		sections[i].Number = i + 1
	}
	truncated := TruncateSections(sections)
	assert.Len(t, truncated, 20)
}

func TestFallbackOutline(t *testing.T) {
	sections := FallbackOutline("Just write one big document about X.")
	assert.Len(t, sections, 1)
	assert.Equal(t, "Full Document", sections[0].Title)
}
