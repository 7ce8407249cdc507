package brainstorm

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

const i1Ideas = `IDEA 1: Solar-powered delivery drones
Use solar panels on delivery drones to extend range.

IDEA 2: Community compost hubs
Neighborhood composting stations reduce landfill waste.`

const i2Ideas = `IDEA 1: Vertical urban farms
Grow food vertically in repurposed warehouses.`

func TestRun_HappyPathMultipleClustersScoresAndRefines(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"i1":      i1Ideas,
			"i2":      i2Ideas,
			"curator": "CLUSTER 1:\nName: Green Transport\nTheme: transport innovation\nIdeas: model_0_idea_1\n\nCLUSTER 2:\nName: Urban Food\nTheme: food production\nIdeas: model_0_idea_2, model_1_idea_1",
			"refiner": "Final concept: combine urban composting with vertical farms for closed-loop food production.",
		},
		Sequenced: map[string][]string{
			"s1": {"Novelty=2 Feasibility=2 Impact=2", "Novelty=5 Feasibility=5 Impact=5"},
			"s2": {"Novelty=2 Feasibility=2 Impact=2", "Novelty=4 Feasibility=4 Impact=4"},
		},
	}
	req := modes.Request{Question: "sustainable city ideas", Config: Config{
		Ideators: []string{"i1", "i2"}, Curator: "curator", Scorers: []string{"s1", "s2"}, Refiner: "refiner",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "Final concept: combine urban composting with vertical farms for closed-loop food production.", result.Output)
}

func TestRun_SingleClusterSkipsScoring(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"i1":      i1Ideas,
			"curator": "CLUSTER 1:\nName: Green Transport\nTheme: transport innovation\nIdeas: model_0_idea_1, model_0_idea_2",
			"refiner": "Final concept: solar drones and compost hubs combined into one pilot program.",
		},
	}
	req := modes.Request{Question: "sustainable city ideas", Config: Config{
		Ideators: []string{"i1"}, Curator: "curator", Refiner: "refiner",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "Final concept: solar drones and compost hubs combined into one pilot program.", result.Output)

	var sawSkippedScore bool
	for _, e := range sink.Events {
		if e.Type == events.PhaseComplete("score") {
			if data, ok := e.Data.(map[string]any); ok && data["skipped"] == true {
				sawSkippedScore = true
			}
		}
	}
	assert.True(t, sawSkippedScore, "expected score phase to be marked skipped for a single cluster")
}

func TestRun_FatalWhenNoIdeasProduced(t *testing.T) {
	gw := &gateway.Static{Fail: map[string]bool{"i1": true, "i2": true}}
	req := modes.Request{Question: "q", Config: Config{Ideators: []string{"i1", "i2"}, Curator: "curator"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}
