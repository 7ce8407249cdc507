package confidence

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_SingleResponderSkipsSoftmaxAndSynthesis(t *testing.T) {
	// spec.md §8 scenario 6: two models configured, one succeeds (0.8),
	// one fails -> softmax skipped, weight 100%, synthesis skipped.
	gw := &gateway.Static{
		Replies: map[string]string{"m1": "the answer is 42\nCONFIDENCE: 0.8"},
		Fail:    map[string]bool{"m2": true},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "the answer is 42\nCONFIDENCE: 0.8", result.Output)
}

func TestRun_TwoRespondersSynthesize(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{
		"m1":   "answer A\nCONFIDENCE: 0.9",
		"m2":   "answer B\nCONFIDENCE: 0.3",
		"synth": "SYNTHESIS: combined answer\n\nCONFIDENCE CALIBRATION NOTES: m1 weighted higher",
	}}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2"}, SynthesizerModel: "synth"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "combined answer", result.Output)
}

func TestRun_FatalOnNoResponses(t *testing.T) {
	gw := &gateway.Static{Fail: map[string]bool{"m1": true}}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}
