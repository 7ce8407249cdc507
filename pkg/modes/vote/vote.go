// Package vote implements the Vote mode (spec.md §4.4.2): collect, vote,
// optional tiebreaker, winner.
package vote

import (
	"context"
	"time"

	"github.com/councilforge/deliberate/pkg/aggregate"
	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/labelmap"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/shared"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Config is Vote's mode_config bag.
type Config struct {
	Models        []string      `mapstructure:"models"`
	ChairmanModel string        `mapstructure:"chairmanModel"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Vote's phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("vote"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "vote",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("collect")})
	collectPrompt := prompts.CollectPrompt(req.Question, req.History)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Models, collectPrompt, timeout)
	for _, r := range responses {
		rec.Append(stage.Record{StageType: "collect", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	if len(responses) < 2 {
		return modes.Fatal(sink, "fewer than two models produced a response")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("collect"), Data: map[string]any{"count": len(responses)}})

	sink.Emit(events.Event{Type: events.PhaseStart("vote")})
	lm := labelmap.New(shared.ModelsOf(responses))
	contentByLabel := byLabel(lm, responses)
	votePrompt := prompts.VotePrompt(req.Question, lm.Labels(), contentByLabel)
	voteResponses, _ := shared.FanOutSame(ctx, gw, shared.ModelsOf(responses), votePrompt, timeout)

	var ballots []string
	for _, vr := range voteResponses {
		label, method := parsers.ParseVote(vr.Response)
		if _, ok := lm.ModelFor(label); !ok {
			label = "" // only votes resolving to a known label count
		}
		ballots = append(ballots, label)
		rec.Append(stage.Record{
			StageType: "vote", StageOrder: rec.NextOrder(), Model: vr.Model, Content: vr.Response,
			ParsedData: map[string]any{"vote": label, "parseSuccess": method == parsers.MatchedPrimary}, ResponseTimeMs: &vr.ResponseTimeMs,
		})
	}
	tally := aggregate.TallyVotes(ballots)
	if len(tally.Winners) == 0 {
		return modes.Fatal(sink, "no parseable votes were cast")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("vote"), Data: map[string]any{"tally": tally.Counts, "isTie": tally.IsTie()}})

	winnerLabel := tally.Winners[0]
	tiebroken := false
	if tally.IsTie() {
		sink.Emit(events.Event{Type: events.PhaseStart("tiebreaker")})
		tiedContentByLabel := make(map[string]string, len(tally.Winners))
		for _, label := range tally.Winners {
			tiedContentByLabel[label] = contentByLabel[label]
		}
		chairman := cfg.ChairmanModel
		if chairman == "" {
			chairman = shared.ModelsOf(responses)[0]
		}
		tiePrompt := prompts.TiebreakerPrompt(req.Question, tally.Winners, tiedContentByLabel)
		label, ok := resolveTiebreak(ctx, gw, chairman, tiePrompt, timeout, lm, tally.Winners)
		if ok {
			winnerLabel = label
			tiebroken = true
		} else {
			winnerLabel = shared.SortedModels(tally.Winners)[0]
			tiebroken = true
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("tiebreaker"), Data: map[string]any{"winner": winnerLabel}})
	}

	winnerModel, _ := lm.ModelFor(winnerLabel)
	winnerResponse := findResponse(responses, winnerModel)
	sink.Emit(events.Event{Type: events.PhaseComplete("winner"), Data: map[string]any{"model": winnerModel, "tiebroken": tiebroken}})

	return modes.Result{Output: winnerResponse}
}

func resolveTiebreak(ctx context.Context, gw gateway.Gateway, chairman, prompt string, timeout time.Duration, lm *labelmap.Map, tied []string) (string, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		result, ok := gw.QueryOne(ctx, chairman, prompt, timeout)
		if !ok {
			continue
		}
		label, method := parsers.ParseVote(result.Content)
		if method != parsers.MatchedDefault {
			if _, known := lm.ModelFor(label); known {
				return label, true
			}
		}
	}
	return "", false
}

func byLabel(lm *labelmap.Map, responses []deliberation.StageOneResponse) map[string]string {
	out := make(map[string]string, len(responses))
	for _, r := range responses {
		if label, ok := lm.LabelFor(r.Model); ok {
			out[label] = r.Response
		}
	}
	return out
}

func findResponse(responses []deliberation.StageOneResponse, model string) string {
	for _, r := range responses {
		if r.Model == model {
			return r.Response
		}
	}
	return ""
}
