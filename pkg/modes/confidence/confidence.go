// Package confidence implements the Confidence-Weighted mode (spec.md
// §4.4.12): answers, weights, synthesis.
package confidence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/councilforge/deliberate/pkg/aggregate"
	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/shared"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Config is Confidence-Weighted's mode_config bag.
type Config struct {
	Models           []string      `mapstructure:"models"`
	SynthesizerModel string        `mapstructure:"synthesizerModel"`
	Temperature      float64       `mapstructure:"temperature"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

func (c Config) temperature() float64 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return 1.0
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Confidence-Weighted's three phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("confidence_weighted"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "confidence_weighted",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("answers")})
	prompt := prompts.ConfidenceAnswerPrompt(req.Question)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Models, prompt, timeout)
	if len(responses) == 0 {
		return modes.Fatal(sink, "no model produced an answer")
	}
	confidences := make(map[string]float64, len(responses))
	contentByModel := make(map[string]string, len(responses))
	for _, r := range responses {
		c, method := parsers.ParseNumericConfidence(r.Response)
		confidences[r.Model] = c
		contentByModel[r.Model] = r.Response
		rec.Append(stage.Record{StageType: "answers", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ParsedData: map[string]any{"confidence": c, "parseSuccess": method != parsers.MatchedDefault}, ResponseTimeMs: &r.ResponseTimeMs})
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("answers"), Data: map[string]any{"count": len(responses)}})

	if len(responses) == 1 {
		// Single-answer edge case: skip softmax (100% weight) and synthesis.
		const note = "no cross-model calibration possible: only one model produced an answer"
		rec.Append(stage.Record{StageType: "synthesis", StageOrder: rec.NextOrder(), Model: responses[0].Model, Content: responses[0].Response, ParsedData: map[string]any{"calibrationNotes": note, "weight": 1.0}})
		sink.Emit(events.Event{Type: events.PhaseComplete("weights"), Data: map[string]any{"skipped": true}})
		sink.Emit(events.Event{Type: events.PhaseComplete("synthesis"), Data: map[string]any{"skipped": true}})
		return modes.Result{Output: responses[0].Response}
	}

	sink.Emit(events.Event{Type: events.PhaseStart("weights")})
	weighted := aggregate.Softmax(confidences, cfg.temperature())
	sort.Slice(weighted, func(i, j int) bool { return weighted[i].Weight > weighted[j].Weight })
	sink.Emit(events.Event{Type: events.PhaseComplete("weights")})

	sink.Emit(events.Event{Type: events.PhaseStart("synthesis")})
	synthesizer := cfg.SynthesizerModel
	if synthesizer == "" {
		synthesizer = weighted[0].Model
	}
	block := renderWeighted(weighted, contentByModel)
	result, ok := gw.QueryOne(ctx, synthesizer, prompts.ConfidenceSynthesisPrompt(req.Question, block), timeout)
	if !ok {
		return modes.Fatal(sink, "confidence synthesis failed")
	}
	synthesis, notes, _ := parsers.ParseSynthesis(result.Content)
	rec.Append(stage.Record{StageType: "synthesis", StageOrder: rec.NextOrder(), Model: synthesizer, Content: result.Content, ParsedData: map[string]any{"calibrationNotes": notes}, ResponseTimeMs: &result.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("synthesis")})

	return modes.Result{Output: synthesis}
}

func renderWeighted(weighted []aggregate.WeightedResponse, contentByModel map[string]string) string {
	out := ""
	for _, w := range weighted {
		tag := ""
		if w.IsOutlier {
			tag = " [OUTLIER]"
		}
		out += fmt.Sprintf("%s (weight=%.3f, confidence=%.2f)%s:\n%s\n\n", w.Model, w.Weight, w.Confidence, tag, contentByModel[w.Model])
	}
	return out
}
