// Package peerreview implements the Peer Review mode (spec.md §4.4.10):
// reviewers in parallel, then consolidation.
package peerreview

import (
	"context"
	"fmt"
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

var peerReviewSeverities = []parsers.Severity{parsers.SeverityCritical, parsers.SeverityMajor, parsers.SeverityMinor, parsers.SeveritySuggestion}

// Config is Peer Review's mode_config bag.
type Config struct {
	Reviewers         []string      `mapstructure:"reviewers"`
	Content           string        `mapstructure:"content"`
	RubricDescription string        `mapstructure:"rubricDescription"`
	ConsolidatorModel string        `mapstructure:"consolidatorModel"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

// CriterionConsensus is the per-criterion aggregate across reviewers.
type CriterionConsensus struct {
	Criterion string
	Average   float64
	Stddev    float64
	Agreement parsers.AgreementLevel
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Peer Review's two phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()
	content := cfg.Content
	if content == "" {
		content = req.Question
	}

	sink.Emit(events.Event{Type: events.Start("peer_review"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "peer_review",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("reviewers")})
	prompt := prompts.PeerReviewPrompt(content, cfg.RubricDescription)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Reviewers, prompt, timeout)
	if len(responses) < 2 {
		return modes.Fatal(sink, "fewer than two reviewers succeeded")
	}

	scoresByCriterion := make(map[string][]float64)
	weightByCriterion := make(map[string]float64)
	var overallScores []float64
	var reports []string
	for _, r := range responses {
		rows := parsers.ParseScoringTable(r.Response)
		findings := parsers.ParseFindings(r.Response, peerReviewSeverities, parsers.SeverityMinor)
		overall := parsers.WeightedMean(rows)
		overallScores = append(overallScores, overall)
		for _, row := range rows {
			scoresByCriterion[row.Criterion] = append(scoresByCriterion[row.Criterion], row.Score)
			weightByCriterion[row.Criterion] = row.Weight
		}
		reports = append(reports, r.Response)
		rec.Append(stage.Record{
			StageType: "reviewers", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response,
			ParsedData: map[string]any{"overall": overall, "findingCount": len(findings)}, ResponseTimeMs: &r.ResponseTimeMs,
		})
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("reviewers"), Data: map[string]any{"count": len(responses)}})

	var consensus []CriterionConsensus
	for criterion, scores := range scoresByCriterion {
		summary := aggregate.SummarizeNumeric(scores)
		consensus = append(consensus, CriterionConsensus{
			Criterion: criterion,
			Average:   summary.Mean,
			Stddev:    summary.Stddev,
			Agreement: parsers.ClassifyAgreement(summary.Stddev),
		})
	}

	sink.Emit(events.Event{Type: events.PhaseStart("consolidation")})
	consolidator := cfg.ConsolidatorModel
	if consolidator == "" {
		consolidator = responses[0].Model
	}
	result, ok := gw.QueryOne(ctx, consolidator, prompts.PeerReviewConsolidationPrompt(content, reports), timeout)
	if !ok {
		return modes.Fatal(sink, "consolidation failed")
	}
	rec.Append(stage.Record{StageType: "consolidation", StageOrder: rec.NextOrder(), Model: consolidator, Content: result.Content, ParsedData: map[string]any{"consensus": renderConsensus(consensus)}, ResponseTimeMs: &result.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("consolidation")})

	return modes.Result{Output: result.Content}
}

func renderConsensus(consensus []CriterionConsensus) string {
	out := ""
	for _, c := range consensus {
		out += fmt.Sprintf("%s: avg=%.2f stddev=%.2f agreement=%s\n", c.Criterion, c.Average, c.Stddev, c.Agreement)
	}
	return out
}
