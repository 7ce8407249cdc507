package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/stretchr/testify/assert"
)

func TestDispatch_UnknownModeEmitsErrorEvent(t *testing.T) {
	gw := &gateway.Static{}
	d := New(gw, "titler", time.Second)
	sink := &events.Slice{}

	outcome, err := d.Dispatch(context.Background(), Request{Mode: "no-such-mode"}, sink)
	assert.Error(t, err)
	assert.True(t, outcome.Failed)
	assert.Len(t, sink.Events, 1)
	assert.Equal(t, events.Error, sink.Events[0].Type)
}

func TestDispatch_ModelCountBelowMinimumEmitsErrorEvent(t *testing.T) {
	gw := &gateway.Static{}
	d := New(gw, "titler", time.Second)
	sink := &events.Slice{}

	req := Request{
		Mode:       "jury",
		Question:   "q",
		ModeConfig: map[string]any{"jurors": []string{"only-one"}},
	}
	outcome, err := d.Dispatch(context.Background(), req, sink)
	assert.Error(t, err)
	assert.True(t, outcome.Failed)
	assert.Equal(t, events.Error, sink.Events[len(sink.Events)-1].Type)
}

func TestDispatch_HappyPathEmitsTitleThenComplete(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"titler": "A Short Title",
		},
		Sequenced: map[string][]string{
			"m1": {"answer from m1", "VOTE: Response A"},
			"m2": {"answer from m2", "VOTE: Response A"},
		},
	}
	d := New(gw, "titler", time.Second)
	sink := &events.Slice{}

	req := Request{
		Mode:     "vote",
		Question: "what is the best approach?",
		ModeConfig: map[string]any{
			"models": []string{"m1", "m2"},
		},
	}
	outcome, err := d.Dispatch(context.Background(), req, sink)
	assert.NoError(t, err)
	assert.False(t, outcome.Failed)
	assert.Equal(t, "A Short Title", outcome.Title)
	assert.NotEmpty(t, outcome.Records)

	assert.True(t, len(sink.Events) >= 2)
	last := sink.Events[len(sink.Events)-1]
	secondLast := sink.Events[len(sink.Events)-2]
	assert.Equal(t, events.Complete, last.Type)
	assert.Equal(t, events.TitleComplete, secondLast.Type)
}

func TestDispatch_RunnerFatalSkipsTitleAndComplete(t *testing.T) {
	gw := &gateway.Static{
		Fail: map[string]bool{"m1": true, "m2": true},
	}
	d := New(gw, "titler", time.Second)
	sink := &events.Slice{}

	req := Request{
		Mode:     "vote",
		Question: "what is the best approach?",
		ModeConfig: map[string]any{
			"models": []string{"m1", "m2"},
		},
	}
	outcome, err := d.Dispatch(context.Background(), req, sink)
	assert.NoError(t, err)
	assert.True(t, outcome.Failed)

	for _, e := range sink.Events {
		assert.NotEqual(t, events.TitleComplete, e.Type)
		assert.NotEqual(t, events.Complete, e.Type)
	}
}

func TestDispatch_TitleGenerationFailureFallsBackButStillSucceeds(t *testing.T) {
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"m1": {"answer from m1", "VOTE: Response A"},
			"m2": {"answer from m2", "VOTE: Response A"},
		},
		Fail: map[string]bool{"titler": true},
	}
	d := New(gw, "titler", time.Second)
	sink := &events.Slice{}

	req := Request{
		Mode:     "vote",
		Question: "what is the best approach?",
		ModeConfig: map[string]any{
			"models": []string{"m1", "m2"},
		},
	}
	outcome, err := d.Dispatch(context.Background(), req, sink)
	assert.NoError(t, err)
	assert.False(t, outcome.Failed)
	assert.Equal(t, fallbackTitle, outcome.Title)
}
