package vote

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_ThreeWayTieBrokenByChairman(t *testing.T) {
	// spec.md §8 scenario 1: A->B, B->A, C->C, all tied at 1 vote each.
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"A": {"A1", "VOTE: Response B"},
			"B": {"B1", "VOTE: Response A"},
			"C": {"C1", "VOTE: Response C", "VOTE: Response B"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"A", "B", "C"}, ChairmanModel: "C"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)

	assert.False(t, result.Failed)
	assert.Equal(t, "B1", result.Output)
}

func TestRun_FatalOnFewerThanTwoResponses(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{"A": "only one"}}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"A"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}

func TestRun_ClearWinnerNoTiebreak(t *testing.T) {
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"A": {"A1", "VOTE: Response A"},
			"B": {"B1", "VOTE: Response A"},
			"C": {"C1", "VOTE: Response C"},
		},
	}
	req := modes.Request{Question: "q", Config: Config{Models: []string{"A", "B", "C"}}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "A1", result.Output)
}
