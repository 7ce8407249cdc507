// Package council implements the Council mode (spec.md §4.4.1): collect,
// rank, synthesize.
package council

import (
	"context"
	"fmt"
	"sort"
	"strings"
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

// Config is Council's mode_config bag, decoded via mapstructure.
type Config struct {
	Models        []string      `mapstructure:"councilModels"`
	ChairmanModel string        `mapstructure:"chairmanModel"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

// RankedModel is one model's aggregate ranking result.
type RankedModel struct {
	Model       string
	AverageRank float64
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Council's three phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("council"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "council",
	}})

	// Collect
	sink.Emit(events.Event{Type: events.PhaseStart("collect")})
	collectPrompt := prompts.CollectPrompt(req.Question, req.History)
	responses, _ := shared.FanOutMessages(ctx, gw, cfg.Models, turnsOf(req), collectPrompt, timeout)
	for _, r := range responses {
		rec.Append(stage.Record{StageType: "collect", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	if len(responses) == 0 {
		return modes.Fatal(sink, "no council member produced a response")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("collect"), Data: map[string]any{"count": len(responses)}})

	// Rank
	sink.Emit(events.Event{Type: events.PhaseStart("rank")})
	lm := labelmap.New(shared.ModelsOf(responses))
	contentByLabel := make(map[string]string, len(responses))
	for _, r := range responses {
		label, _ := lm.LabelFor(r.Model)
		contentByLabel[label] = r.Response
	}
	rankPrompt := prompts.RankingPrompt(req.Question, lm.Labels(), contentByLabel)
	rankResponses, _ := shared.FanOutSame(ctx, gw, shared.ModelsOf(responses), rankPrompt, timeout)

	positionSums := make(map[string]int)
	positionCounts := make(map[string]int)
	for _, rr := range rankResponses {
		order, method := parsers.ParseRanking(rr.Response)
		parseSuccess := method == parsers.MatchedPrimary
		rec.Append(stage.Record{
			StageType: "rank", StageOrder: rec.NextOrder(), Model: rr.Model, Content: rr.Response,
			ParsedData: map[string]any{"order": order, "parseSuccess": parseSuccess}, ResponseTimeMs: &rr.ResponseTimeMs,
		})
		for i, label := range order {
			model, ok := lm.ModelFor(label)
			if !ok {
				continue
			}
			positionSums[model] += i + 1
			positionCounts[model]++
		}
	}

	ranked := make([]RankedModel, 0, len(responses))
	for _, r := range responses {
		if positionCounts[r.Model] == 0 {
			continue
		}
		avg := float64(positionSums[r.Model]) / float64(positionCounts[r.Model])
		ranked = append(ranked, RankedModel{Model: r.Model, AverageRank: roundTo(avg, 100)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].AverageRank < ranked[j].AverageRank })
	sink.Emit(events.Event{Type: events.PhaseComplete("rank"), Data: map[string]any{"ranked": ranked}})

	// Synthesize
	sink.Emit(events.Event{Type: events.PhaseStart("synthesize")})
	chairman := cfg.ChairmanModel
	if chairman == "" && len(ranked) > 0 {
		chairman = ranked[0].Model
	}
	synthPrompt := prompts.SynthesisPrompt(req.Question, summarize(responses), summarizeRanked(ranked))
	result, ok := gw.QueryOne(ctx, chairman, synthPrompt, timeout)
	if !ok {
		return modes.Fatal(sink, "chairman synthesis failed")
	}
	rec.Append(stage.Record{StageType: "synthesize", StageOrder: rec.NextOrder(), Model: chairman, Role: "chairman", Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("synthesize")})

	return modes.Result{Output: result.Content}
}

func turnsOf(req modes.Request) []gateway.Turn {
	out := make([]gateway.Turn, len(req.History))
	for i, t := range req.History {
		out[i] = gateway.Turn{Role: string(t.Role), Content: t.Content}
	}
	return out
}

func summarize(responses []deliberation.StageOneResponse) string {
	var b strings.Builder
	for _, r := range responses {
		b.WriteString(r.Model)
		b.WriteString(":\n")
		b.WriteString(r.Response)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func roundTo(v float64, factor float64) float64 {
	return float64(int(v*factor+0.5)) / factor
}

func summarizeRanked(ranked []RankedModel) string {
	out := ""
	for _, r := range ranked {
		out += fmt.Sprintf("%s: avg rank %.2f\n", r.Model, r.AverageRank)
	}
	return out
}
