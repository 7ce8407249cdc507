// Package shared holds orchestration helpers reused by the mode runners:
// parallel fan-out over the gateway with per-model soft-failure accounting
// (PhaseOutcome).
package shared

import (
	"context"
	"sort"
	"time"

	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/councilforge/deliberate/pkg/gateway"
	"golang.org/x/sync/errgroup"
)

// PhaseOutcome tracks which models succeeded and which failed in one
// parallel phase, so downstream phases and fallback prompts can reference
// the gap explicitly instead of silently dropping it (spec.md §9).
type PhaseOutcome struct {
	Succeeded []string
	Failed    []string
}

// FanOutSame calls gateway.QueryMany with one shared prompt across models,
// returning stage-1 responses for every model that answered with non-empty
// content, plus the phase outcome.
func FanOutSame(ctx context.Context, gw gateway.Gateway, models []string, prompt string, timeout time.Duration) ([]deliberation.StageOneResponse, PhaseOutcome) {
	results := gw.QueryMany(ctx, models, prompt, timeout)
	return collect(models, results)
}

// FanOutMessages calls gateway.QueryManyWithMessages across models sharing
// prior turns and a current prompt, for multi-turn-capable modes.
func FanOutMessages(ctx context.Context, gw gateway.Gateway, models []string, turns []gateway.Turn, prompt string, timeout time.Duration) ([]deliberation.StageOneResponse, PhaseOutcome) {
	results := gw.QueryManyWithMessages(ctx, models, turns, prompt, timeout)
	return collect(models, results)
}

func collect(models []string, results map[string]gateway.Result) ([]deliberation.StageOneResponse, PhaseOutcome) {
	var responses []deliberation.StageOneResponse
	var outcome PhaseOutcome
	for _, m := range models {
		r, ok := results[m]
		if !ok || r.Content == "" {
			outcome.Failed = append(outcome.Failed, m)
			continue
		}
		responses = append(responses, deliberation.StageOneResponse{Model: m, Response: r.Content, ResponseTimeMs: r.ResponseTimeMs})
		outcome.Succeeded = append(outcome.Succeeded, m)
	}
	return responses, outcome
}

// PerModelPrompt is one entry of a per-model-unique-prompt fan-out: the
// model's own prompt, distinct from its siblings' (e.g. Debate's revision
// stage, Delphi's rounds 2+).
type PerModelPrompt struct {
	Model  string
	Prompt string
}

// FanOutUnique runs one QueryOne call per entry in prompts, concurrently,
// honoring ctx cancellation. Unlike FanOutSame this supports prompts that
// differ per model, at the cost of driving the concurrency locally instead
// of delegating to the gateway's own QueryMany.
func FanOutUnique(ctx context.Context, gw gateway.Gateway, prompts []PerModelPrompt, timeout time.Duration) ([]deliberation.StageOneResponse, PhaseOutcome) {
	type slot struct {
		resp deliberation.StageOneResponse
		ok   bool
	}
	slots := make([]slot, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		i, p := i, p
		g.Go(func() error {
			result, ok := gw.QueryOne(gctx, p.Model, p.Prompt, timeout)
			if !ok || result.Content == "" {
				return nil
			}
			slots[i] = slot{
				resp: deliberation.StageOneResponse{Model: p.Model, Response: result.Content, ResponseTimeMs: result.ResponseTimeMs},
				ok:   true,
			}
			return nil
		})
	}
	_ = g.Wait() // per-call failures are soft (ok=false); no error ever returned above

	var responses []deliberation.StageOneResponse
	var outcome PhaseOutcome
	for i, p := range prompts {
		if slots[i].ok {
			responses = append(responses, slots[i].resp)
			outcome.Succeeded = append(outcome.Succeeded, p.Model)
		} else {
			outcome.Failed = append(outcome.Failed, p.Model)
		}
	}
	return responses, outcome
}

// ModelsOf projects the model ids out of a stage-1 response slice, in the
// order responses were collected.
func ModelsOf(responses []deliberation.StageOneResponse) []string {
	out := make([]string, len(responses))
	for i, r := range responses {
		out[i] = r.Model
	}
	return out
}

// SortedModels returns a copy of models sorted ascending, used wherever a
// deterministic ordering is required before alphabetical tie-breaking.
func SortedModels(models []string) []string {
	out := make([]string, len(models))
	copy(out, models)
	sort.Strings(out)
	return out
}
