// Package jury implements the Jury mode (spec.md §4.4.3): present,
// deliberation, verdict.
package jury

import (
	"context"
	"fmt"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/shared"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Config is Jury's mode_config bag.
type Config struct {
	Jurors           []string      `mapstructure:"jurors"`
	ForemanModel     string        `mapstructure:"foremanModel"`
	CandidateContent string        `mapstructure:"candidateContent"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Jury's three phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()
	candidate := cfg.CandidateContent
	if candidate == "" {
		candidate = req.Question
	}

	sink.Emit(events.Event{Type: events.Start("jury"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "jury",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("present")})
	sink.Emit(events.Event{Type: events.PhaseComplete("present")})

	sink.Emit(events.Event{Type: events.PhaseStart("deliberation")})
	prompt := prompts.JuryDeliberationPrompt(req.Question, candidate)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Jurors, prompt, timeout)
	if len(responses) < 2 {
		return modes.Fatal(sink, "fewer than two jurors produced a verdict")
	}

	scorecards := make([]parsers.JuryScorecard, 0, len(responses))
	jurorTexts := make([]string, 0, len(responses))
	var verdicts []parsers.JuryVerdict
	for _, r := range responses {
		sc := parsers.ParseJuryScorecard(r.Response)
		avg, n := sc.Average()
		rec.Append(stage.Record{
			StageType: "deliberation", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response,
			ParsedData: map[string]any{"average": avg, "scoredDimensions": n, "verdict": sc.Verdict}, ResponseTimeMs: &r.ResponseTimeMs,
		})
		scorecards = append(scorecards, sc)
		jurorTexts = append(jurorTexts, r.Response)
		verdicts = append(verdicts, sc.Verdict)
	}
	majority := parsers.MajorityVerdict(verdicts)
	sink.Emit(events.Event{Type: events.PhaseComplete("deliberation"), Data: map[string]any{"majorityVerdict": majority}})

	sink.Emit(events.Event{Type: events.PhaseStart("verdict")})
	foreman := cfg.ForemanModel
	if foreman == "" {
		foreman = responses[0].Model
	}
	tallySummary := renderTally(scorecards)
	foremanPrompt := prompts.JuryForemanPrompt(req.Question, jurorTexts, tallySummary, string(majority))
	result, ok := gw.QueryOne(ctx, foreman, foremanPrompt, timeout)
	finalVerdict := majority
	output := tallySummary
	if ok {
		if v := parsers.ParseJuryVerdict(result.Content); v != "" {
			finalVerdict = v
		}
		output = result.Content
		rec.Append(stage.Record{StageType: "verdict", StageOrder: rec.NextOrder(), Model: foreman, Role: "foreman", Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
	} else {
		return modes.Fatal(sink, "foreman synthesis failed")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("verdict"), Data: map[string]any{"verdict": finalVerdict}})

	return modes.Result{Output: output}
}

func renderTally(scorecards []parsers.JuryScorecard) string {
	counts := map[parsers.JuryVerdict]int{}
	for _, sc := range scorecards {
		counts[sc.Verdict]++
	}
	return fmt.Sprintf("APPROVE=%d REVISE=%d REJECT=%d", counts[parsers.VerdictApprove], counts[parsers.VerdictRevise], counts[parsers.VerdictReject])
}
