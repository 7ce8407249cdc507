package debate

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_ParseFailureCarriesOriginalForward(t *testing.T) {
	// spec.md §8 scenario 2: model 2 has no DECISION: line in its revision
	// reply, so its revised response must be its unmodified round-1 answer.
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"m1": {"m1 original answer", "DECISION: REVISE\nm1 revised answer", "VOTE: Response A"},
			"m2": {"m2 original answer", "I have thought about it and will keep going with my plan.", "VOTE: Response A"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)

	assert.False(t, result.Failed)
	records := rec.Records()
	assert.NotEmpty(t, records)

	var m2Revision *stage.Record
	for i := range records {
		r := records[i]
		if r.StageType == "revision" && r.Model == "m2" {
			m2Revision = &r
		}
	}
	if assert.NotNil(t, m2Revision) {
		parsed, ok := m2Revision.ParsedData.(map[string]any)
		if assert.True(t, ok) {
			assert.Equal(t, false, parsed["parseSuccess"])
		}
	}
}

func TestRun_FatalOnFewerThanTwoRound1Responses(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{"m1": "only one"}}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}

func TestRun_HappyPathTwoModels(t *testing.T) {
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"m1": {"m1 original", "DECISION: STAND", "VOTE: Response A"},
			"m2": {"m2 original", "DECISION: REVISE\nm2 revised", "VOTE: Response B"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.NotEmpty(t, result.Output)
}
