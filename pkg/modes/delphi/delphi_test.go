package delphi

import (
	"context"
	"strings"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_ConvergesInRoundTwo(t *testing.T) {
	// spec.md §8 scenario 3: round 1 (100,150,120,300) CV~0.45 no converge;
	// round 2 (130,140,135,145) CV~0.04 < 0.15 converged; final = median = 137.5.
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"p1": {"ESTIMATE: 100", "ESTIMATE: 130"},
			"p2": {"ESTIMATE: 150", "ESTIMATE: 140"},
			"p3": {"ESTIMATE: 120", "ESTIMATE: 135"},
			"p4": {"ESTIMATE: 300", "ESTIMATE: 145"},
		},
		Replies: map[string]string{"facilitator": "CLASS: numeric"},
	}
	req := modes.Request{Question: "How many?", Config: Config{
		Panelists: []string{"p1", "p2", "p3", "p4"}, FacilitatorModel: "facilitator", TauNum: 0.15, MaxRounds: 3,
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)

	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "137.5")
	assert.Contains(t, result.Output, "Converged: true")
}

func TestRun_FatalOnFewerThanThreePanelists(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{
		"p1": "CLASS: numeric", "p2": "ESTIMATE: 10",
	}}
	req := modes.Request{Question: "q", Config: Config{Panelists: []string{"p1", "p2"}, FacilitatorModel: "p1"}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}

func TestRun_QualitativePanel(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"facilitator": "CLASS: qualitative",
		},
		Sequenced: map[string][]string{
			"p1": {"ANSWER: yes", "ANSWER: yes"},
			"p2": {"ANSWER: yes", "ANSWER: yes"},
			"p3": {"ANSWER: no", "ANSWER: yes"},
		},
	}
	req := modes.Request{Question: "Should we?", Config: Config{
		Panelists: []string{"p1", "p2", "p3"}, FacilitatorModel: "facilitator", TauQual: 75, MaxRounds: 2,
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.True(t, strings.Contains(result.Output, "yes"))
}
