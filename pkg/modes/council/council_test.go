package council

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_HappyPath(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"model-a": "Paris is the capital.",
			"model-b": "The capital of France is Paris.",
			"model-c": "FINAL RANKING:\n1. Response A\n2. Response B",
		},
		Sequenced: map[string][]string{
			"model-a": {"Paris is the capital.", "FINAL RANKING:\n1. Response B\n2. Response A"},
			"model-b": {"The capital of France is Paris.", "FINAL RANKING:\n1. Response A\n2. Response B"},
			"model-c": {"It's Paris.", "FINAL RANKING:\n1. Response A\n2. Response B", "Paris, unmodified synthesis."},
		},
	}
	req := modes.Request{
		ConversationID: "c1", MessageID: "m1", Question: "What is the capital of France?",
		Config: Config{Models: []string{"model-a", "model-b", "model-c"}, ChairmanModel: "model-c"},
	}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)

	assert.False(t, result.Failed)
	assert.NotEmpty(t, result.Output)
	assert.Equal(t, events.Start("council"), sink.Events[0].Type)
	assert.Equal(t, events.PhaseComplete("synthesize"), sink.Events[len(sink.Events)-1].Type)
	assert.NotEmpty(t, rec.Records())
}

func TestRun_FatalOnZeroCollectResponses(t *testing.T) {
	gw := &gateway.Static{Fail: map[string]bool{"model-a": true, "model-b": true}}
	req := modes.Request{Question: "x", Config: Config{Models: []string{"model-a", "model-b"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)

	assert.True(t, result.Failed)
	assert.Equal(t, events.Error, sink.Events[len(sink.Events)-1].Type)
}
