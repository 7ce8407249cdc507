// Package tournament implements the Tournament mode (spec.md §4.4.11):
// collect, bracket seeding, N rounds of matchups, winner.
package tournament

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

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

// Config is Tournament's mode_config bag.
type Config struct {
	Models     []string      `mapstructure:"models"`
	JudgeModel string        `mapstructure:"judgeModel"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

// BracketEntry records one round of the champion's path.
type BracketEntry struct {
	Round    int
	Opponent string // empty for a bye
	Result   string // "won" | "bye"
}

type contestant struct {
	response deliberation.StageOneResponse
	path     []BracketEntry
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Tournament's collect/seed/matchup/winner phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("tournament"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "tournament",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("collect")})
	collectPrompt := prompts.CollectPrompt(req.Question, req.History)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Models, collectPrompt, timeout)
	for _, r := range responses {
		rec.Append(stage.Record{StageType: "collect", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	if len(responses) < 2 {
		return modes.Fatal(sink, "fewer than two stage-1 responses were produced")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("collect"), Data: map[string]any{"count": len(responses)}})

	totalRounds := int(math.Ceil(math.Log2(float64(len(responses)))))
	sink.Emit(events.Event{Type: events.PhaseStart("bracket_seeding"), Data: map[string]any{"rounds": totalRounds}})
	contestants := make([]*contestant, len(responses))
	for i, r := range responses {
		contestants[i] = &contestant{response: r}
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("bracket_seeding")})

	round := 0
	for len(contestants) > 1 {
		round++
		sink.Emit(events.Event{Type: events.PhaseStart("matchup")})
		var next []*contestant
		for i := 0; i < len(contestants); i += 2 {
			if i+1 >= len(contestants) {
				bye := contestants[i]
				bye.path = append(bye.path, BracketEntry{Round: round, Result: "bye"})
				next = append(next, bye)
				continue
			}
			a, b := contestants[i], contestants[i+1]
			winner := judgeMatchup(ctx, gw, cfg.JudgeModel, req.Question, a, b, timeout, round, rec)
			next = append(next, winner)
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("matchup"), Data: map[string]any{"round": round, "advancing": len(next)}})
		contestants = next
	}

	champion := contestants[0]
	sink.Emit(events.Event{Type: events.PhaseComplete("winner"), Data: map[string]any{"model": champion.response.Model, "bracketPath": champion.path}})

	return modes.Result{Output: champion.response.Response}
}

func judgeMatchup(ctx context.Context, gw gateway.Gateway, judge, question string, a, b *contestant, timeout time.Duration, round int, rec *stage.Recorder) *contestant {
	lm := labelmap.New([]string{a.response.Model, b.response.Model})
	labelA, _ := lm.LabelFor(a.response.Model)
	labelB, _ := lm.LabelFor(b.response.Model)
	prompt := prompts.TournamentMatchupPrompt(question, labelA, a.response.Response, labelB, b.response.Response)

	winnerLabel, ok := attemptJudge(ctx, gw, judge, prompt, timeout)
	if !ok {
		// Judge query failed once; retry, then default-advance contestant A.
		winnerLabel, ok = attemptJudge(ctx, gw, judge, prompt, timeout)
		if !ok {
			rec.Append(stage.Record{StageType: "matchup", StageOrder: rec.NextOrder(), Model: judge, Content: "", ParsedData: map[string]any{"round": round, "defaultAdvance": true}})
			return advance(a, b, round)
		}
	}
	if winnerLabel == "" {
		strictPrompt := prompts.TournamentMatchupStrictRetryPrompt(question, labelA, a.response.Response, labelB, b.response.Response)
		winnerLabel, ok = attemptJudge(ctx, gw, judge, strictPrompt, timeout)
		if !ok || winnerLabel == "" {
			wasDefault := true
			if rand.IntN(2) == 0 {
				winnerLabel = labelA
			} else {
				winnerLabel = labelB
			}
			rec.Append(stage.Record{StageType: "matchup", StageOrder: rec.NextOrder(), Model: judge, Content: "", ParsedData: map[string]any{"round": round, "wasDefault": wasDefault, "winner": winnerLabel}})
			return advanceByLabel(a, b, labelA, winnerLabel, round)
		}
	}
	rec.Append(stage.Record{StageType: "matchup", StageOrder: rec.NextOrder(), Model: judge, ParsedData: map[string]any{"round": round, "winner": winnerLabel}})
	return advanceByLabel(a, b, labelA, winnerLabel, round)
}

func attemptJudge(ctx context.Context, gw gateway.Gateway, judge, prompt string, timeout time.Duration) (string, bool) {
	result, ok := gw.QueryOne(ctx, judge, prompt, timeout)
	if !ok {
		return "", false
	}
	label, _ := parsers.ParseTournamentWinner(result.Content)
	return label, true
}

func advanceByLabel(a, b *contestant, labelA, winnerLabel string, round int) *contestant {
	if winnerLabel == labelA {
		return advance(a, b, round)
	}
	return advance(b, a, round)
}

func advance(winner, loser *contestant, round int) *contestant {
	winner.path = append(winner.path, BracketEntry{Round: round, Opponent: loser.response.Model, Result: "won"})
	return winner
}
