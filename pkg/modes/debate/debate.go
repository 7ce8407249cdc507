// Package debate implements the Debate mode (spec.md §4.4.4): round 1,
// revision, vote, winner.
package debate

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

// Config is Debate's mode_config bag.
type Config struct {
	Models  []string      `mapstructure:"models"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 120 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Debate's four phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("debate"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "debate",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("round_1")})
	round1Prompt := prompts.DebateRoundOnePrompt(req.Question)
	round1, _ := shared.FanOutSame(ctx, gw, cfg.Models, round1Prompt, timeout)
	for _, r := range round1 {
		rec.Append(stage.Record{StageType: "round_1", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	if len(round1) < 2 {
		return modes.Fatal(sink, "fewer than two debaters answered round one")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("round_1"), Data: map[string]any{"count": len(round1)}})

	// Revision: a fresh shuffled permutation, never the round-1 map.
	sink.Emit(events.Event{Type: events.PhaseStart("revision")})
	round1ByModel := byModel(round1)
	lm := labelmap.NewShuffled(shared.ModelsOf(round1))

	var revisionPrompts []shared.PerModelPrompt
	for _, r := range round1 {
		peerLabels, peerContent := peersOf(lm, round1, r.Model)
		revisionPrompts = append(revisionPrompts, shared.PerModelPrompt{
			Model:  r.Model,
			Prompt: prompts.DebateRevisionPrompt(req.Question, r.Response, peerLabels, peerContent),
		})
	}
	revisionResponses, outcome := shared.FanOutUnique(ctx, gw, revisionPrompts, timeout)
	revisionByModel := make(map[string]deliberation.StageOneResponse, len(revisionResponses))
	for _, r := range revisionResponses {
		decision, revisedBody, method := parsers.ParseDecision(r.Response)
		parseSuccess := method != parsers.MatchedDefault
		finalBody := revisedBody
		if decision == parsers.DecisionStand || finalBody == "" {
			finalBody = round1ByModel[r.Model].Response
		}
		rec.Append(stage.Record{
			StageType: "revision", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response,
			ParsedData: map[string]any{"decision": decision, "parseSuccess": parseSuccess}, ResponseTimeMs: &r.ResponseTimeMs,
		})
		revisionByModel[r.Model] = deliberation.StageOneResponse{Model: r.Model, Response: finalBody, ResponseTimeMs: r.ResponseTimeMs}
	}
	// Models that failed revision carry their original response forward unrevised.
	for _, failedModel := range outcome.Failed {
		if orig, ok := round1ByModel[failedModel]; ok {
			revisionByModel[failedModel] = orig
			rec.Append(stage.Record{StageType: "revision", StageOrder: rec.NextOrder(), Model: failedModel, Content: orig.Response, ParsedData: map[string]any{"decision": parsers.DecisionStand, "parseSuccess": false}})
		}
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("revision")})

	// Vote over revised responses. No chairman — ties break alphabetically.
	sink.Emit(events.Event{Type: events.PhaseStart("vote")})
	revisedModels := shared.ModelsOf(round1)
	voteLm := labelmap.New(revisedModels)
	contentByLabel := make(map[string]string, len(revisedModels))
	for _, m := range revisedModels {
		if r, ok := revisionByModel[m]; ok {
			if label, ok2 := voteLm.LabelFor(m); ok2 {
				contentByLabel[label] = r.Response
			}
		}
	}
	votePrompt := prompts.VotePrompt(req.Question, voteLm.Labels(), contentByLabel)
	voteResponses, _ := shared.FanOutSame(ctx, gw, revisedModels, votePrompt, timeout)

	var ballots []string
	for _, vr := range voteResponses {
		label, _ := parsers.ParseVote(vr.Response)
		if _, ok := voteLm.ModelFor(label); !ok {
			label = ""
		}
		ballots = append(ballots, label)
		rec.Append(stage.Record{StageType: "vote", StageOrder: rec.NextOrder(), Model: vr.Model, Content: vr.Response, ParsedData: map[string]any{"vote": label}, ResponseTimeMs: &vr.ResponseTimeMs})
	}
	tally := aggregate.TallyVotes(ballots)
	if len(tally.Winners) == 0 {
		return modes.Fatal(sink, "no parseable votes were cast")
	}
	winnerLabel := tally.Winners[0]
	if tally.IsTie() {
		winnerLabel = shared.SortedModels(tally.Winners)[0]
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("vote"), Data: map[string]any{"tally": tally.Counts}})

	winnerModel, _ := voteLm.ModelFor(winnerLabel)
	winner := revisionByModel[winnerModel]
	sink.Emit(events.Event{Type: events.PhaseComplete("winner"), Data: map[string]any{"model": winnerModel}})

	return modes.Result{Output: winner.Response}
}

func byModel(responses []deliberation.StageOneResponse) map[string]deliberation.StageOneResponse {
	out := make(map[string]deliberation.StageOneResponse, len(responses))
	for _, r := range responses {
		out[r.Model] = r
	}
	return out
}

func peersOf(lm *labelmap.Map, responses []deliberation.StageOneResponse, self string) ([]string, map[string]string) {
	var labels []string
	content := make(map[string]string)
	for _, label := range lm.Labels() {
		model, _ := lm.ModelFor(label)
		if model == self {
			continue
		}
		for _, r := range responses {
			if r.Model == model {
				labels = append(labels, label)
				content[label] = r.Response
			}
		}
	}
	return labels, content
}
