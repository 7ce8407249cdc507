// Package delphi implements the Delphi mode (spec.md §4.4.5): classify,
// rounds 1..K, synthesis.
package delphi

import (
	"context"
	"fmt"
	"strconv"
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

// Config is Delphi's mode_config bag.
type Config struct {
	Panelists        []string      `mapstructure:"panelists"`
	FacilitatorModel string        `mapstructure:"facilitatorModel"`
	MaxRounds        int           `mapstructure:"maxRounds"`
	TauNum           float64       `mapstructure:"tauNum"`
	TauQual          float64       `mapstructure:"tauQual"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

func (c Config) maxRounds() int {
	if c.MaxRounds > 0 {
		return c.MaxRounds
	}
	return 3
}

func (c Config) tauNum() float64 {
	if c.TauNum > 0 {
		return c.TauNum
	}
	return 0.15
}

func (c Config) tauQual() float64 {
	if c.TauQual > 0 {
		return c.TauQual
	}
	return 75
}

type panelistState struct {
	model       string
	numeric     float64
	qualitative string
	changed     bool
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Delphi's classify/rounds/synthesis phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("delphi"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "delphi",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("classify")})
	facilitator := cfg.FacilitatorModel
	if facilitator == "" {
		facilitator = cfg.Panelists[0]
	}
	classifyResult, ok := gw.QueryOne(ctx, facilitator, prompts.DelphiClassifyPrompt(req.Question), timeout)
	class := parsers.ClassQualitative
	if ok {
		class, _, _ = parsers.ParseQuestionClass(classifyResult.Content)
		rec.Append(stage.Record{StageType: "classify", StageOrder: rec.NextOrder(), Model: facilitator, Content: classifyResult.Content, ParsedData: map[string]any{"class": class}})
	}
	numeric := class == parsers.ClassNumeric
	sink.Emit(events.Event{Type: events.PhaseComplete("classify"), Data: map[string]any{"class": class}})

	round1Prompt := prompts.DelphiRoundOnePrompt(req.Question, numeric)
	round1Order := rec.NextOrder()
	round1, _ := shared.FanOutSame(ctx, gw, cfg.Panelists, round1Prompt, timeout)
	if len(round1) < 3 {
		return modes.Fatal(sink, "fewer than three panelists answered round one")
	}

	states := make(map[string]*panelistState, len(round1))
	var numericValues []float64
	var qualAnswers []string
	for _, r := range round1 {
		st := &panelistState{model: r.Model, changed: true}
		if numeric {
			v, parsedOK, _ := parsers.ParseNumericEstimate(r.Response)
			if parsedOK {
				st.numeric = v
				numericValues = append(numericValues, v)
			}
		} else {
			v, parsedOK, _ := parsers.ParseQualitativeEstimate(r.Response)
			if parsedOK {
				st.qualitative = v
				qualAnswers = append(qualAnswers, v)
			}
		}
		states[r.Model] = st
		rec.Append(stage.Record{StageType: "round", StageOrder: round1Order, Model: r.Model, Content: r.Response})
	}

	var numSummary aggregate.NumericSummary
	var qualSummary aggregate.QualitativeSummary
	if numeric {
		numSummary = aggregate.SummarizeNumeric(numericValues)
	} else {
		qualSummary = aggregate.SummarizeQualitative(qualAnswers)
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("round"), Data: map[string]any{"round": 1}})

	converged := false
	if numeric {
		converged = numSummary.HasConverged(cfg.tauNum())
	} else {
		converged = qualSummary.HasConverged(cfg.tauQual())
	}

	round := 1
	for !converged && round < cfg.maxRounds() {
		round++
		statsSummary := renderStats(numeric, numSummary, qualSummary)

		var prompts_ []shared.PerModelPrompt
		for _, m := range cfg.Panelists {
			st := states[m]
			prior := "no prior answer"
			if st != nil {
				if numeric {
					prior = strconv.FormatFloat(st.numeric, 'f', -1, 64)
				} else {
					prior = st.qualitative
				}
			}
			prompts_ = append(prompts_, shared.PerModelPrompt{
				Model:  m,
				Prompt: prompts.DelphiLaterRoundPrompt(req.Question, prior, statsSummary, numeric),
			})
		}

		roundOrder := rec.NextOrder()
		responses, roundOutcome := shared.FanOutUnique(ctx, gw, prompts_, timeout)
		numericValues = nil
		qualAnswers = nil
		for _, r := range responses {
			st := states[r.Model]
			if st == nil {
				st = &panelistState{model: r.Model}
				states[r.Model] = st
			}
			if numeric {
				v, parsedOK, _ := parsers.ParseNumericEstimate(r.Response)
				if parsedOK {
					st.numeric = v
					st.changed = true
				}
			} else {
				v, parsedOK, _ := parsers.ParseQualitativeEstimate(r.Response)
				if parsedOK {
					st.qualitative = v
					st.changed = true
				}
			}
			rec.Append(stage.Record{StageType: "round", StageOrder: roundOrder, Model: r.Model, Content: r.Response, ParsedData: map[string]any{"round": round}})
		}
		// Panelists who failed this round carry their previous answer forward unchanged.
		for _, failedModel := range roundOutcome.Failed {
			if st, ok := states[failedModel]; ok {
				st.changed = false
			}
		}
		for _, m := range cfg.Panelists {
			st := states[m]
			if st == nil {
				continue
			}
			if numeric {
				numericValues = append(numericValues, st.numeric)
			} else if st.qualitative != "" {
				qualAnswers = append(qualAnswers, st.qualitative)
			}
		}
		if numeric {
			numSummary = aggregate.SummarizeNumeric(numericValues)
			converged = numSummary.HasConverged(cfg.tauNum())
		} else {
			qualSummary = aggregate.SummarizeQualitative(qualAnswers)
			converged = qualSummary.HasConverged(cfg.tauQual())
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("round"), Data: map[string]any{"round": round, "converged": converged}})
	}

	sink.Emit(events.Event{Type: events.PhaseStart("synthesis")})
	var output string
	if numeric {
		output = fmt.Sprintf("FINAL ESTIMATE: %s\n\nConverged: %v after %d round(s). Mean=%.2f Median=%.2f CV=%.3f",
			strconv.FormatFloat(numSummary.Median, 'f', -1, 64), converged, round, numSummary.Mean, numSummary.Median, numSummary.CV)
	} else {
		output = fmt.Sprintf("FINAL ANSWER: %s\n\nConverged: %v after %d round(s). Agreement=%.1f%%", qualSummary.Mode, converged, round, qualSummary.AgreementPct)
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("synthesis")})

	return modes.Result{Output: output}
}

func renderStats(numeric bool, n aggregate.NumericSummary, q aggregate.QualitativeSummary) string {
	if numeric {
		return fmt.Sprintf("mean=%.2f median=%.2f stddev=%.2f min=%.2f max=%.2f cv=%.3f n=%d", n.Mean, n.Median, n.Stddev, n.Min, n.Max, n.CV, n.N)
	}
	return fmt.Sprintf("mode=%s agreement=%.1f%% n=%d", q.Mode, q.AgreementPct, q.N)
}
