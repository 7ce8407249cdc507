// Package panel implements the Specialist Panel mode (spec.md §4.4.8):
// specialists in parallel, then synthesis.
package panel

import (
	"context"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/shared"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Specialist pairs a model with the role it plays in the panel.
type Specialist struct {
	Model    string `mapstructure:"model"`
	RoleName string `mapstructure:"roleName"`
	RoleLens string `mapstructure:"roleLens"`
}

// Config is Specialist Panel's mode_config bag.
type Config struct {
	Specialists      []Specialist  `mapstructure:"specialists"`
	SynthesizerModel string        `mapstructure:"synthesizerModel"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Specialist Panel's two phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("specialist_panel"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "specialist_panel",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("specialists")})
	var prompts_ []shared.PerModelPrompt
	for _, s := range cfg.Specialists {
		prompts_ = append(prompts_, shared.PerModelPrompt{
			Model:  s.Model,
			Prompt: prompts.SpecialistPanelPrompt(req.Question, s.RoleName, s.RoleLens),
		})
	}
	responses, _ := shared.FanOutUnique(ctx, gw, prompts_, timeout)
	for _, r := range responses {
		rec.Append(stage.Record{StageType: "specialists", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	if len(responses) < 2 {
		return modes.Fatal(sink, "fewer than two specialists succeeded")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("specialists"), Data: map[string]any{"count": len(responses)}})

	sink.Emit(events.Event{Type: events.PhaseStart("synthesis")})
	synthesizer := cfg.SynthesizerModel
	if synthesizer == "" {
		synthesizer = responses[0].Model
	}
	var reports []string
	for _, r := range responses {
		reports = append(reports, r.Response)
	}
	result, ok := gw.QueryOne(ctx, synthesizer, prompts.SpecialistSynthesisPrompt(req.Question, reports), timeout)
	if !ok {
		return modes.Fatal(sink, "specialist synthesis failed")
	}
	rec.Append(stage.Record{StageType: "synthesis", StageOrder: rec.NextOrder(), Model: synthesizer, Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("synthesis")})

	return modes.Result{Output: result.Content}
}
