package redteam

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

func TestRun_HappyPathTwoRounds(t *testing.T) {
	gw := &gateway.Static{
		Sequenced: map[string][]string{
			"a1": {"FINDING 1: weak auth\nSeverity: HIGH", "FINDING 1: no rate limiting\nSeverity: LOW"},
			"a2": {"FINDING 2: missing input validation\nSeverity: CRITICAL", ""},
		},
		Replies: map[string]string{
			"d1": "RESPONSE TO FINDING 1:\nVerdict: ACCEPT\nAdded rate limiting middleware.",
		},
	}
	req := modes.Request{Question: "some draft content", Config: Config{
		Attackers: []string{"a1", "a2"}, DefenderModel: "d1", Rounds: 2,
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "Overall risk: CRITICAL")
}

func TestRun_ZeroFindingsSkipsLaterRounds(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{"a1": "looks solid, no issues found"}}
	req := modes.Request{Question: "content", Config: Config{Attackers: []string{"a1"}, Rounds: 3}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "Overall risk: NONE")
	assert.Equal(t, 1, gw.CallCount())
}
