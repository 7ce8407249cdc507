// Package chain implements the Chain mode (spec.md §4.4.7): a strictly
// sequential pipeline of {model, mandate} steps.
package chain

import (
	"context"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Step is one link of the chain: a model and the mandate it must fulfill.
type Step struct {
	Model   string `mapstructure:"model"`
	Mandate string `mapstructure:"mandate"`
}

// Config is Chain's mode_config bag.
type Config struct {
	Steps   []Step        `mapstructure:"steps"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Chain's strictly sequential steps.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("chain"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "chain",
	}})

	if len(cfg.Steps) == 0 {
		return modes.Fatal(sink, "chain has no configured steps")
	}

	var previousOutput string
	var deferredMandates string
	var lastSuccess string
	anySucceeded := false

	for i, step := range cfg.Steps {
		sink.Emit(events.Event{Type: events.PhaseStart("step")})
		mandate := step.Mandate
		if i == 0 && mandate == "" {
			mandate = req.Question
		}
		prompt := prompts.ChainStepPrompt(mandate, previousOutput, deferredMandates)
		result, ok := gw.QueryOne(ctx, step.Model, prompt, timeout)
		if !ok {
			if i == 0 {
				return modes.Fatal(sink, "the first chain step failed")
			}
			if deferredMandates != "" {
				deferredMandates += "\n"
			}
			deferredMandates += mandate
			rec.Append(stage.Record{StageType: "step", StageOrder: rec.NextOrder(), Model: step.Model, Content: "", ParsedData: map[string]any{"stepIndex": i, "skipped": true}})
			sink.Emit(events.Event{Type: events.PhaseComplete("step"), Data: map[string]any{"stepIndex": i, "skipped": true}})
			continue
		}
		previousOutput = result.Content
		lastSuccess = result.Content
		anySucceeded = true
		rec.Append(stage.Record{StageType: "step", StageOrder: rec.NextOrder(), Model: step.Model, Content: result.Content, ParsedData: map[string]any{"stepIndex": i}, ResponseTimeMs: &result.ResponseTimeMs})
		sink.Emit(events.Event{Type: events.PhaseComplete("step"), Data: map[string]any{"stepIndex": i, "skipped": false}})
	}

	if !anySucceeded {
		return modes.Fatal(sink, "the first chain step failed")
	}

	return modes.Result{Output: lastSuccess}
}
