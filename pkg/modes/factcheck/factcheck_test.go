package factcheck

import (
	"context"
	"testing"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/stage"
	"github.com/stretchr/testify/assert"
)

const extractReply = `CLAIM 1: The Eiffel Tower was completed in 1889.
Context: history of the tower
Type: DATE

CLAIM 2: The Eiffel Tower is 330 meters tall.
Context: dimensions
Type: STATISTIC`

func TestRun_HappyPathConsensusAndReliabilityScore(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"extractor": extractReply,
			"c1": "VERIFICATION claim_1: VERIFIED\nEvidence: Completed March 1889.\nCorrection: N/A\nConfidence: HIGH\n\n" +
				"VERIFICATION claim_2: DISPUTED\nEvidence: Height with antennas is 330m; without is 300m.\nCorrection: 300 meters excluding antennas.\nConfidence: MEDIUM",
			"c2": "VERIFICATION claim_1: VERIFIED\nEvidence: Matches historical record.\nCorrection: N/A\nConfidence: HIGH\n\n" +
				"VERIFICATION claim_2: DISPUTED\nEvidence: Structural height differs from antenna height.\nCorrection: 300 meters excluding antennas.\nConfidence: MEDIUM",
			"reporter": "Claim 1 is well-supported. Claim 2's figure is disputed.\n\nReliability Score: 72",
		},
	}
	req := modes.Request{Question: "Tell me about the Eiffel Tower", Config: Config{
		ExtractorModel: "extractor", Checkers: []string{"c1", "c2"}, ReporterModel: "reporter",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "Reliability Score: 72")
}

func TestRun_ZeroClaimsSkipsVerificationAndReport(t *testing.T) {
	gw := &gateway.Static{Replies: map[string]string{
		"extractor": "I could not find any checkable factual claims.",
	}}
	req := modes.Request{Question: "What is your favorite color?", Config: Config{
		ExtractorModel: "extractor", Checkers: []string{"c1"}, ReporterModel: "reporter",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Contains(t, result.Output, "No verifiable factual claims")

	var sawSkippedVerify bool
	for _, e := range sink.Events {
		if e.Type == events.PhaseComplete("verify") {
			if data, ok := e.Data.(map[string]any); ok && data["skipped"] == true {
				sawSkippedVerify = true
			}
		}
	}
	assert.True(t, sawSkippedVerify)
}

func TestRun_BiasFlagSetWhenGeneratorIsAlsoChecker(t *testing.T) {
	gw := &gateway.Static{
		Replies: map[string]string{
			"gen":       "The Eiffel Tower was completed in 1889 and is 330 meters tall.",
			"extractor": extractReply,
			"reporter":  "All claims check out.\n\nReliability Score: 95",
		},
	}
	req := modes.Request{Question: "Tell me about the Eiffel Tower", Config: Config{
		GeneratorModel: "gen", ExtractorModel: "extractor", Checkers: []string{"gen"}, ReporterModel: "reporter",
	}}
	sink := &events.Slice{}
	rec := stage.NewRecorder()

	result := Run(context.Background(), req, gw, sink, rec)
	assert.False(t, result.Failed)
	assert.Equal(t, events.Start("fact_check"), sink.Events[0].Type)
	data, ok := sink.Events[0].Data.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, true, data["biasWarning"])
}
