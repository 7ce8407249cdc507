package tournament

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_FourContestantsTwoRounds(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"m1": "m1 answer", "m2": "m2 answer", "m3": "m3 answer", "m4": "m4 answer",
		},
		Sequenced: map[string][]string{
			"judge": {"WINNER: Response A", "WINNER: Response B", "WINNER: Response A"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2", "m3", "m4"}, JudgeModel: "judge"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, []string{"m1 answer", "m2 answer", "m3 answer", "m4 answer"}, result.Output)
}

func TestRun_OddContestantGetsBye(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{"m1": "m1 answer", "m2": "m2 answer", "m3": "m3 answer"},
		Sequenced: map[string][]string{
			"judge": {"WINNER: Response A", "WINNER: Response B"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1", "m2", "m3"}, JudgeModel: "judge"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.NotEmpty(t, result.Output)
}

func TestRun_FatalOnFewerThanTwoResponses(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{"m1": "only one"}}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"m1"}, JudgeModel: "judge"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}
