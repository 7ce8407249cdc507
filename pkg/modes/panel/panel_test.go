package panel

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
	gw := &gateway.Static{Replies: map[string]string{
		"legal":     "legal report",
		"finance":   "finance report",
		"synth":     "unified recommendation",
	}}
	req := modes.Request{Question: "Should we launch in the EU?", Config: Config{
		Specialists: []Specialist{
			{Model: "legal", RoleName: "Legal", RoleLens: "compliance risk"},
			{Model: "finance", RoleName: "Finance", RoleLens: "cost and ROI"},
		},
		SynthesizerModel: "synth",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, "unified recommendation", result.Output)
}

func TestRun_FatalOnFewerThanTwoSpecialists(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{"legal": "legal report"}}
	req := modes.Request{Question: "q", Config: Config{
		Specialists: []Specialist{{Model: "legal", RoleName: "Legal", RoleLens: "risk"}},
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.True(t, result.Failed)
}
