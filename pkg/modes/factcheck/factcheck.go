// Package factcheck implements the Fact-Check mode (spec.md §4.4.15):
// generate, extract, verify, report.
package factcheck

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/shared"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Config is Fact-Check's mode_config bag.
type Config struct {
	GeneratorModel   string        `mapstructure:"generatorModel"`
	Content          string        `mapstructure:"content"`
	ExtractorModel   string        `mapstructure:"extractorModel"`
	Checkers         []string      `mapstructure:"checkers"`
	ReporterModel    string        `mapstructure:"reporterModel"`
	MaxContentLength int           `mapstructure:"maxContentLength"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

func (c Config) maxContentLength() int {
	if c.MaxContentLength > 0 {
		return c.MaxContentLength
	}
	return 8000
}

const truncationMarker = "\n...[truncated]"

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Fact-Check's four phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	biasFlag := cfg.GeneratorModel != "" && contains(cfg.Checkers, cfg.GeneratorModel)
	sink.Emit(events.Event{Type: events.Start("fact_check"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "fact_check",
		"biasWarning": biasFlag,
	}})

	content := cfg.Content
	if content == "" {
		content = req.Question
	}
	if cfg.GeneratorModel != "" {
		sink.Emit(events.Event{Type: events.PhaseStart("generate")})
		result, ok := gw.QueryOne(ctx, cfg.GeneratorModel, prompts.FactCheckGeneratePrompt(req.Question), timeout)
		if ok {
			content = result.Content
			rec.Append(stage.Record{StageType: "generate", StageOrder: rec.NextOrder(), Model: cfg.GeneratorModel, Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
		} else {
			content = req.Question
			rec.Append(stage.Record{StageType: "generate", StageOrder: rec.NextOrder(), Model: cfg.GeneratorModel, Content: "", ParsedData: map[string]any{"failed": true}})
		}
		sink.Emit(events.Event{Type: events.PhaseComplete("generate")})
	}

	sink.Emit(events.Event{Type: events.PhaseStart("extract")})
	extractor := cfg.ExtractorModel
	if extractor == "" {
		extractor = firstChecker(cfg)
	}
	truncated := truncate(content, cfg.maxContentLength())
	extractResult, ok := gw.QueryOne(ctx, extractor, prompts.FactCheckExtractPrompt(truncated), timeout)
	var claims []parsers.Claim
	if ok {
		claims = parsers.ParseClaims(extractResult.Content)
		rec.Append(stage.Record{StageType: "extract", StageOrder: rec.NextOrder(), Model: extractor, Content: extractResult.Content, ParsedData: map[string]any{"claimCount": len(claims)}, ResponseTimeMs: &extractResult.ResponseTimeMs})
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("extract"), Data: map[string]any{"claimCount": len(claims)}})

	if len(claims) == 0 {
		sink.Emit(events.Event{Type: events.PhaseComplete("verify"), Data: map[string]any{"skipped": true}})
		sink.Emit(events.Event{Type: events.PhaseComplete("report"), Data: map[string]any{"score": nil}})
		return modes.Result{Output: "No verifiable factual claims were found in the content."}
	}

	sink.Emit(events.Event{Type: events.PhaseStart("verify")})
	claimNumbers := make([]int, len(claims))
	for i, c := range claims {
		claimNumbers[i] = c.Number
	}
	verifyPrompt := prompts.FactCheckVerifyPrompt(renderClaims(claims))
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Checkers, verifyPrompt, timeout)
	perChecker := make(map[string][]parsers.Verification, len(responses))
	for _, r := range responses {
		verifications := parsers.ParseVerifications(r.Response, claimNumbers)
		perChecker[r.Model] = verifications
		rec.Append(stage.Record{StageType: "verify", StageOrder: rec.NextOrder(), Model: r.Model, Content: r.Response, ResponseTimeMs: &r.ResponseTimeMs})
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("verify"), Data: map[string]any{"checkerCount": len(responses)}})

	sink.Emit(events.Event{Type: events.PhaseStart("report")})
	consensus := buildConsensus(claims, perChecker)
	reporter := cfg.ReporterModel
	if reporter == "" {
		reporter = firstChecker(cfg)
	}
	reportResult, ok := gw.QueryOne(ctx, reporter, prompts.FactCheckReportPrompt(renderConsensus(consensus)), timeout)
	if !ok {
		return modes.Fatal(sink, "fact-check report synthesis failed")
	}
	score := parseReliabilityScore(reportResult.Content)
	rec.Append(stage.Record{StageType: "report", StageOrder: rec.NextOrder(), Model: reporter, Content: reportResult.Content, ParsedData: map[string]any{"reliabilityScore": score}, ResponseTimeMs: &reportResult.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("report"), Data: map[string]any{"reliabilityScore": score}})

	return modes.Result{Output: reportResult.Content}
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func firstChecker(cfg Config) string {
	if len(cfg.Checkers) > 0 {
		return cfg.Checkers[0]
	}
	return cfg.ReporterModel
}

func truncate(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max] + truncationMarker
}

func renderClaims(claims []parsers.Claim) string {
	out := ""
	for _, c := range claims {
		out += fmt.Sprintf("CLAIM %d: %s\nContext: %s\nType: %s\n\n", c.Number, c.Text, c.Context, c.Type)
	}
	return out
}

type claimConsensus struct {
	claim      parsers.Claim
	verdict    parsers.Verdict
	confidence parsers.QualConfidence
	correction string
}

func buildConsensus(claims []parsers.Claim, perChecker map[string][]parsers.Verification) []claimConsensus {
	out := make([]claimConsensus, len(claims))
	for i, c := range claims {
		var verdicts []parsers.Verdict
		var confidencesAtConsensus []parsers.QualConfidence
		var disputedCorrections []string
		byVerdict := make(map[parsers.Verdict][]parsers.Verification)
		for _, verifications := range perChecker {
			for _, v := range verifications {
				if v.ClaimNumber != c.Number {
					continue
				}
				verdicts = append(verdicts, v.Verdict)
				byVerdict[v.Verdict] = append(byVerdict[v.Verdict], v)
			}
		}
		consensusVerdict := parsers.ConsensusVerdict(verdicts)
		for _, v := range byVerdict[consensusVerdict] {
			confidencesAtConsensus = append(confidencesAtConsensus, v.Confidence)
		}
		for _, v := range byVerdict[parsers.VerdictDisputed] {
			if v.Correction != "" {
				disputedCorrections = append(disputedCorrections, v.Correction)
			}
		}
		out[i] = claimConsensus{
			claim:      c,
			verdict:    consensusVerdict,
			confidence: modeConfidence(confidencesAtConsensus),
			correction: mostFrequent(disputedCorrections),
		}
	}
	return out
}

func modeConfidence(confidences []parsers.QualConfidence) parsers.QualConfidence {
	if len(confidences) == 0 {
		return parsers.ConfidenceMedium
	}
	counts := map[parsers.QualConfidence]int{}
	for _, c := range confidences {
		counts[c]++
	}
	best := parsers.ConfidenceMedium
	bestCount := -1
	for _, lvl := range []parsers.QualConfidence{parsers.ConfidenceHigh, parsers.ConfidenceMedium, parsers.ConfidenceLow} {
		if counts[lvl] > bestCount {
			best = lvl
			bestCount = counts[lvl]
		}
	}
	return best
}

func mostFrequent(values []string) string {
	if len(values) == 0 {
		return ""
	}
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best := order[0]
	bestCount := counts[best]
	for _, v := range order[1:] {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func renderConsensus(consensus []claimConsensus) string {
	out := ""
	for _, cc := range consensus {
		out += fmt.Sprintf("CLAIM %d: %s\nConsensus: %s (confidence: %s)\n", cc.claim.Number, cc.claim.Text, cc.verdict, cc.confidence)
		if cc.verdict == parsers.VerdictDisputed && cc.correction != "" {
			out += fmt.Sprintf("Suggested correction: %s\n", cc.correction)
		}
		out += "\n"
	}
	return out
}

var reliabilityRe = regexp.MustCompile(`(?i)Reliability\s*Score\s*:\s*(\d+)`)

func parseReliabilityScore(text string) int {
	m := reliabilityRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
