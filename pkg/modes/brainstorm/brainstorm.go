// Package brainstorm implements the Brainstorm mode (spec.md §4.4.14):
// ideate, cluster, score, refine.
package brainstorm

import (
	"context"
	"fmt"
	"regexp"
	"sort"
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

// Config is Brainstorm's mode_config bag.
type Config struct {
	Ideators    []string      `mapstructure:"ideators"`
	Curator     string        `mapstructure:"curator"`
	Scorers     []string      `mapstructure:"scorers"`
	Refiner     string        `mapstructure:"refiner"`
	MaxClusters int           `mapstructure:"maxClusters"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 90 * time.Second
}

func (c Config) maxClusters() int {
	if c.MaxClusters > 0 {
		return c.MaxClusters
	}
	return 6
}

type clusterScore struct {
	cluster        parsers.Cluster
	noveltySum     int
	feasibilitySum int
	impactSum      int
	n              int
}

func (s clusterScore) total() float64 {
	if s.n == 0 {
		return 0
	}
	return float64(s.noveltySum+s.feasibilitySum+s.impactSum) / float64(s.n)
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Brainstorm's four phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("brainstorm"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "brainstorm",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("ideate")})
	ideatePrompt := prompts.BrainstormIdeatePrompt(req.Question)
	responses, _ := shared.FanOutSame(ctx, gw, cfg.Ideators, ideatePrompt, timeout)
	var allIdeas []parsers.Idea
	for i, model := range cfg.Ideators {
		for _, r := range responses {
			if r.Model != model {
				continue
			}
			ideas := parsers.ParseIdeas(r.Response, i)
			allIdeas = append(allIdeas, ideas...)
			rec.Append(stage.Record{StageType: "ideate", StageOrder: rec.NextOrder(), Model: model, Content: r.Response, ParsedData: map[string]any{"ideaCount": len(ideas)}, ResponseTimeMs: &r.ResponseTimeMs})
		}
	}
	if len(allIdeas) == 0 {
		return modes.Fatal(sink, "no ideas were produced")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("ideate"), Data: map[string]any{"ideaCount": len(allIdeas)}})

	sink.Emit(events.Event{Type: events.PhaseStart("cluster")})
	knownIDs := make(map[string]bool, len(allIdeas))
	for _, idea := range allIdeas {
		knownIDs[idea.ID] = true
	}
	effectiveMax := parsers.EffectiveMaxClusters(len(allIdeas), cfg.maxClusters())
	curatorResult, ok := gw.QueryOne(ctx, cfg.Curator, prompts.BrainstormClusterPrompt(renderIdeas(allIdeas), effectiveMax), timeout)
	var clusters []parsers.Cluster
	if ok {
		clusters = parsers.ParseClusters(curatorResult.Content, knownIDs)
		rec.Append(stage.Record{StageType: "cluster", StageOrder: rec.NextOrder(), Model: cfg.Curator, Content: curatorResult.Content, ParsedData: map[string]any{"clusterCount": len(clusters)}, ResponseTimeMs: &curatorResult.ResponseTimeMs})
	}
	if len(clusters) == 0 {
		clusters = fallbackClusters(allIdeas)
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("cluster"), Data: map[string]any{"clusterCount": len(clusters)}})

	var winners []parsers.Cluster
	if len(clusters) == 1 {
		winners = clusters
		sink.Emit(events.Event{Type: events.PhaseComplete("score"), Data: map[string]any{"skipped": true}})
	} else {
		sink.Emit(events.Event{Type: events.PhaseStart("score")})
		scored := scoreClusters(ctx, gw, cfg, clusters, allIdeas, timeout, rec)
		winners = topClusters(scored)
		sink.Emit(events.Event{Type: events.PhaseComplete("score"), Data: map[string]any{"winnerCount": len(winners)}})
	}

	sink.Emit(events.Event{Type: events.PhaseStart("refine")})
	output := refine(ctx, gw, cfg, winners, allIdeas, timeout, rec)
	sink.Emit(events.Event{Type: events.PhaseComplete("refine")})

	return modes.Result{Output: output}
}

func renderIdeas(ideas []parsers.Idea) string {
	out := ""
	for _, idea := range ideas {
		out += fmt.Sprintf("[%s] %s: %s\n%s\n\n", idea.ID, idea.Label, idea.Title, idea.Body)
	}
	return out
}

func fallbackClusters(ideas []parsers.Idea) []parsers.Cluster {
	byLabel := make(map[string][]string)
	var order []string
	for _, idea := range ideas {
		if _, seen := byLabel[idea.Label]; !seen {
			order = append(order, idea.Label)
		}
		byLabel[idea.Label] = append(byLabel[idea.Label], idea.ID)
	}
	var clusters []parsers.Cluster
	for i, label := range order {
		clusters = append(clusters, parsers.Cluster{
			Number: i + 1, Name: label + " ideas", Theme: "ungrouped", Promise: parsers.PromiseMedium, IdeaIDs: byLabel[label],
		})
	}
	return clusters
}

var scoreLineRe = regexp.MustCompile(`(?i)Novelty\s*=\s*(\d+).*Feasibility\s*=\s*(\d+).*Impact\s*=\s*(\d+)`)

func parseScoreTriple(text string) (novelty, feasibility, impact int, ok bool) {
	m := scoreLineRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, 0, false
	}
	novelty = clamp1to5(atoiSafe(m[1]))
	feasibility = clamp1to5(atoiSafe(m[2]))
	impact = clamp1to5(atoiSafe(m[3]))
	return novelty, feasibility, impact, true
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func clamp1to5(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

func scoreClusters(ctx context.Context, gw gateway.Gateway, cfg Config, clusters []parsers.Cluster, ideas []parsers.Idea, timeout time.Duration, rec *stage.Recorder) []clusterScore {
	byID := make(map[string]parsers.Idea, len(ideas))
	for _, idea := range ideas {
		byID[idea.ID] = idea
	}
	scored := make([]clusterScore, len(clusters))
	validScorers := 0
	for i, cl := range clusters {
		scored[i] = clusterScore{cluster: cl}
		summary := clusterSummary(cl, byID)
		for _, scorer := range cfg.Scorers {
			result, ok := gw.QueryOne(ctx, scorer, prompts.BrainstormScorePrompt(cl.Name, summary), timeout)
			if !ok {
				continue
			}
			n, f, imp, parsedOK := parseScoreTriple(result.Content)
			rec.Append(stage.Record{StageType: "score", StageOrder: rec.NextOrder(), Model: scorer, Content: result.Content, ParsedData: map[string]any{"cluster": cl.Number, "parseSuccess": parsedOK}, ResponseTimeMs: &result.ResponseTimeMs})
			if !parsedOK {
				continue
			}
			scored[i].noveltySum += n
			scored[i].feasibilitySum += f
			scored[i].impactSum += imp
			scored[i].n++
			validScorers++
		}
	}
	if validScorers < 2 {
		// Fewer than 2 valid scorers overall: rank by promise level instead.
		for i := range scored {
			p := scored[i].cluster.Promise.Rank()
			scored[i] = clusterScore{cluster: scored[i].cluster, noveltySum: p, n: 1}
		}
	}
	return scored
}

func clusterSummary(cl parsers.Cluster, byID map[string]parsers.Idea) string {
	out := fmt.Sprintf("Theme: %s\n", cl.Theme)
	for _, id := range cl.IdeaIDs {
		if idea, ok := byID[id]; ok {
			out += fmt.Sprintf("- %s: %s\n", idea.Title, idea.Body)
		}
	}
	return out
}

func topClusters(scored []clusterScore) []parsers.Cluster {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].total() > scored[j].total() })
	if len(scored) == 0 {
		return nil
	}
	best := scored[0].total()
	var winners []parsers.Cluster
	for _, s := range scored {
		if s.total() == best {
			winners = append(winners, s.cluster)
		}
		if len(winners) >= 3 {
			break
		}
	}
	return winners
}

func refine(ctx context.Context, gw gateway.Gateway, cfg Config, winners []parsers.Cluster, ideas []parsers.Idea, timeout time.Duration, rec *stage.Recorder) string {
	byID := make(map[string]parsers.Idea, len(ideas))
	for _, idea := range ideas {
		byID[idea.ID] = idea
	}
	var block string
	for _, w := range winners {
		block += fmt.Sprintf("CLUSTER %d: %s\n%s\n\n", w.Number, w.Name, clusterSummary(w, byID))
	}
	refiner := cfg.Refiner
	if refiner == "" {
		refiner = cfg.Curator
	}
	result, ok := gw.QueryOne(ctx, refiner, prompts.BrainstormRefinePrompt(block), timeout)
	if ok {
		rec.Append(stage.Record{StageType: "refine", StageOrder: rec.NextOrder(), Model: refiner, Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
		return result.Content
	}
	out := ""
	for _, w := range winners {
		out += fmt.Sprintf("%s\n", w.Name)
		for _, id := range w.IdeaIDs {
			if idea, ok := byID[id]; ok {
				out += fmt.Sprintf("- %s\n", idea.Title)
			}
		}
	}
	rec.Append(stage.Record{StageType: "refine", StageOrder: rec.NextOrder(), Model: refiner, Content: out, ParsedData: map[string]any{"fallback": true}})
	return out
}
