package blueprint

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

const fiveSectionOutline = `DOCUMENT TITLE: Migration Plan

SECTION 1: Introduction
Description: why we are migrating
Length: Short

SECTION 2: Current State
Description: today's architecture
Length: Medium

SECTION 3: Target State
Description: the destination architecture
Length: Medium

SECTION 4: Migration Steps
Description: the cutover plan
Length: Long

SECTION 5: Risks
Description: what could go wrong
Length: Short
`

func TestRun_OneAuthorFailureProducesTodoBlock(t *testing.T) {
	// spec.md §8 scenario 4: 5 sections, author of section 3 fails;
	// assembler (also failing here) must fall back to a [TODO: Section 3 ...] block.
	// Round-robin over two authors across 5 sections: author1 gets
	// sections 1,3,5; author2 gets 2,4. Fail author1 entirely so every
	// section it was assigned must surface as a TODO in the fallback
	// assembly (the assembler itself is left unconfigured and also falls
	// back to author1, which fails too).
	gw := &gateway.Static{
		Replies: map[string]string{
			"architect": fiveSectionOutline,
			"author2":   "content for even sections",
		},
		Fail: map[string]bool{"author1": true},
	}
	req := modes.Request{Question: "Plan our cloud migration", Config: Config{
		ArchitectModel: "architect", Authors: []string{"author1", "author2"}, AssemblerModel: "",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "[TODO: Section 1 on Introduction needed]")
	assert.Contains(t, result.Output, "## Section 4")
}

func TestRun_FatalWhenOutlineHasFewerThanThreeSections(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{
		"architect": "DOCUMENT TITLE: Too Short\n\nSECTION 1: Only one\nDescription: not enough\n",
	}}
	req := modes.Request{Question: "q", Config: Config{ArchitectModel: "architect", Authors: []string{"a1"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}
