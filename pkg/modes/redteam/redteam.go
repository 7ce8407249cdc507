// Package redteam implements the Red Team mode (spec.md §4.4.6): generate,
// K cycles of attack/defend, synthesize.
package redteam

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

var redTeamSeverities = []parsers.Severity{parsers.SeverityCritical, parsers.SeverityHigh, parsers.SeverityMedium, parsers.SeverityLow}

var severityRank = map[parsers.Severity]int{
	parsers.SeverityCritical: 4,
	parsers.SeverityHigh:     3,
	parsers.SeverityMedium:   2,
	parsers.SeverityLow:      1,
}

// Config is Red Team's mode_config bag.
type Config struct {
	GeneratorModel   string        `mapstructure:"generatorModel"`
	Attackers        []string      `mapstructure:"attackers"`
	DefenderModel    string        `mapstructure:"defenderModel"`
	SynthesizerModel string        `mapstructure:"synthesizerModel"`
	Rounds           int           `mapstructure:"rounds"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

func (c Config) rounds() int {
	if c.Rounds > 0 {
		return c.Rounds
	}
	return 2
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Red Team's generate/attack/defend/synthesize phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("red_team"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "red_team",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("generate")})
	content := req.Question
	generator := cfg.GeneratorModel
	if generator != "" {
		if result, ok := gw.QueryOne(ctx, generator, req.Question, timeout); ok {
			content = result.Content
			rec.Append(stage.Record{StageType: "generate", StageOrder: rec.NextOrder(), Model: generator, Content: content, ResponseTimeMs: &result.ResponseTimeMs})
		}
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("generate")})

	highestSeverity := parsers.Severity("")
	var totalFindings, totalAccepted int

	for round := 1; round <= cfg.rounds(); round++ {
		sink.Emit(events.Event{Type: events.PhaseStart("attack")})
		attackPrompt := prompts.RedTeamAttackPrompt(content)
		attackResponses, _ := shared.FanOutSame(ctx, gw, cfg.Attackers, attackPrompt, timeout)

		var findings []parsers.Finding
		for _, r := range attackResponses {
			fs := parsers.ParseFindings(r.Response, redTeamSeverities, parsers.SeverityMedium)
			findings = append(findings, fs...)
			rec.Append(stage.Record{StageType: "attack", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ParsedData: map[string]any{"round": round, "findingCount": len(fs)}})
		}
		totalFindings += len(findings)
		for _, f := range findings {
			if severityRank[f.Severity] > severityRank[highestSeverity] {
				highestSeverity = f.Severity
			}
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("attack"), Data: map[string]any{"round": round, "findings": len(findings)}})

		if len(findings) == 0 {
			// Zero findings in a round skips defense and all later rounds.
			break
		}

		sink.Emit(events.Event{Type: events.PhaseStart("defend")})
		findingsBlock := renderFindings(findings)
		defender := cfg.DefenderModel
		if defender == "" && len(cfg.Attackers) > 0 {
			defender = cfg.Attackers[0]
		}
		defendResult, ok := gw.QueryOne(ctx, defender, prompts.RedTeamDefendPrompt(content, findingsBlock), timeout)
		if ok {
			defenses := parsers.ParseDefenses(defendResult.Content)
			rec.Append(stage.Record{StageType: "defend", StageOrder: rec.NextOrder(), Model: defender, Content: defendResult.Content, ParsedData: map[string]any{"round": round}, ResponseTimeMs: &defendResult.ResponseTimeMs})
			for _, d := range defenses {
				if d.Verdict == parsers.VerdictAccept && d.RevisedBody != "" {
					content = d.RevisedBody
					totalAccepted++
				}
			}
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("defend"), Data: map[string]any{"round": round}})
	}

	sink.Emit(events.Event{Type: events.PhaseStart("synthesize")})
	output := fmt.Sprintf(
		"%s\n\n---\nRed team audit: %d finding(s) raised, %d accepted across rounds. Overall risk: %s.",
		content, totalFindings, totalAccepted, orNone(highestSeverity),
	)
	sink.Emit(events.Event{Type: events.PhaseComplete("synthesize"), Data: map[string]any{"overallRisk": orNone(highestSeverity)}})

	return modes.Result{Output: output}
}

func orNone(s parsers.Severity) string {
	if s == "" {
		return "NONE"
	}
	return string(s)
}

func renderFindings(findings []parsers.Finding) string {
	out := ""
	for _, f := range findings {
		out += fmt.Sprintf("FINDING %d: %s\nSeverity: %s\n\n", f.Number, f.Body, f.Severity)
	}
	return out
}
