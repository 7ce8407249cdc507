// Package decompose implements the Decompose mode (spec.md §4.4.13): plan,
// assign, execute, assemble.
package decompose

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/councilforge/deliberate/pkg/aggregate"
	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
	"golang.org/x/sync/errgroup"
)

// Config is Decompose's mode_config bag.
type Config struct {
	PlannerModel   string        `mapstructure:"plannerModel"`
	Workers        []string      `mapstructure:"workers"`
	AssemblerModel string        `mapstructure:"assemblerModel"`
	MaxTasks       int           `mapstructure:"maxTasks"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 120 * time.Second
}

func (c Config) maxTasks() int {
	if c.MaxTasks > 0 {
		return c.MaxTasks
	}
	return 20
}

type taskResult struct {
	output       string
	ok           bool
	responseTime int64
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Decompose's four phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("decompose"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "decompose",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("plan")})
	tasks, waves := plan(ctx, gw, cfg, req.Question, timeout, rec)
	if len(tasks) == 0 {
		return modes.Fatal(sink, "planner produced no tasks")
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("plan"), Data: map[string]any{"taskCount": len(tasks), "waveCount": len(waves)}})

	sink.Emit(events.Event{Type: events.PhaseStart("assign")})
	byID := make(map[string]parsers.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	assignment := make(map[string]string, len(tasks))
	i := 0
	for _, wave := range waves {
		for _, id := range wave {
			assignment[id] = cfg.Workers[i%len(cfg.Workers)]
			i++
		}
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("assign")})

	sink.Emit(events.Event{Type: events.PhaseStart("execute")})
	executeStart := time.Now()
	results := make(map[string]taskResult, len(tasks))
	for waveIdx, wave := range waves {
		executeWave(ctx, gw, wave, byID, assignment, results, timeout, rec, waveIdx)
	}
	totalWall := time.Since(executeStart).Milliseconds()
	sink.Emit(events.Event{Type: events.PhaseComplete("execute")})

	sink.Emit(events.Event{Type: events.PhaseStart("assemble")})
	output := assemble(ctx, gw, cfg, req.Question, tasks, results, timeout, rec)
	durationMs := make(map[string]int64, len(results))
	for id, r := range results {
		durationMs[id] = r.responseTime
	}
	nodes := toNodes(tasks)
	criticalPath := aggregate.CriticalPathMs(nodes, durationMs)
	efficiency := aggregate.ParallelismEfficiency(durationMs, totalWall)
	sink.Emit(events.Event{Type: events.PhaseComplete("assemble"), Data: map[string]any{"criticalPathMs": criticalPath, "parallelismEfficiency": efficiency}})

	return modes.Result{Output: output}
}

func plan(ctx context.Context, gw gateway.Gateway, cfg Config, question string, timeout time.Duration, rec *stage.Recorder) ([]parsers.Task, [][]string) {
	result, ok := gw.QueryOne(ctx, cfg.PlannerModel, prompts.DecomposePlanPrompt(question), timeout)
	if !ok {
		return nil, nil
	}
	rec.Append(stage.Record{StageType: "plan", StageOrder: rec.NextOrder(), Model: cfg.PlannerModel, Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})

	tasks := finalizeTasks(parsers.ParseTasks(result.Content), cfg.maxTasks())
	nodes := toNodes(tasks)
	waves, clean := aggregate.Waves(nodes)
	if clean {
		return tasks, waves
	}

	// First cycle: retry the planner once with a strict DAG instruction.
	retryResult, ok := gw.QueryOne(ctx, cfg.PlannerModel, prompts.DecomposePlanStrictRetryPrompt(question), timeout)
	if ok {
		rec.Append(stage.Record{StageType: "plan", StageOrder: rec.NextOrder(), Model: cfg.PlannerModel, Content: retryResult.Content, ParsedData: map[string]any{"retry": true}, ResponseTimeMs: &retryResult.ResponseTimeMs})
		retryTasks := finalizeTasks(parsers.ParseTasks(retryResult.Content), cfg.maxTasks())
		retryNodes := toNodes(retryTasks)
		if retryWaves, clean2 := aggregate.Waves(retryNodes); clean2 {
			return retryTasks, retryWaves
		}
		tasks = retryTasks
		nodes = retryNodes
	}

	// Second cycle: flatten all dependencies into a single wave.
	flatNodes := aggregate.Flatten(nodes)
	flatTasks := make([]parsers.Task, len(tasks))
	for i, t := range tasks {
		t.Dependencies = nil
		flatTasks[i] = t
	}
	flatWaves, _ := aggregate.Waves(flatNodes)
	return flatTasks, flatWaves
}

func finalizeTasks(tasks []parsers.Task, maxTasks int) []parsers.Task {
	tasks = parsers.CleanDependencies(tasks)
	if len(tasks) > maxTasks {
		tasks = tasks[:maxTasks]
		tasks = parsers.CleanDependencies(tasks)
	}
	return tasks
}

func toNodes(tasks []parsers.Task) []aggregate.Node {
	nodes := make([]aggregate.Node, len(tasks))
	for i, t := range tasks {
		nodes[i] = aggregate.Node{ID: t.ID, DependsOn: t.Dependencies}
	}
	return nodes
}

func executeWave(ctx context.Context, gw gateway.Gateway, wave []string, byID map[string]parsers.Task, assignment map[string]string, results map[string]taskResult, timeout time.Duration, rec *stage.Recorder, waveIdx int) {
	var mu sync.Mutex
	order := rec.NextOrder()
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range wave {
		id := id
		task := byID[id]
		worker := assignment[id]
		g.Go(func() error {
			predecessorsBlock := renderPredecessors(task, results, &mu)
			result, ok := gw.QueryOne(gctx, worker, prompts.DecomposeWorkerPrompt(task.Title, task.Description, predecessorsBlock), timeout)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				results[id] = taskResult{ok: false}
				rec.Append(stage.Record{StageType: "execute", StageOrder: order, Model: worker, Content: "", ParsedData: map[string]any{"taskId": id, "wave": waveIdx, "failed": true}})
				return nil
			}
			results[id] = taskResult{output: result.Content, ok: true, responseTime: result.ResponseTimeMs}
			rec.Append(stage.Record{StageType: "execute", StageOrder: order, Model: worker, Content: result.Content, ParsedData: map[string]any{"taskId": id, "wave": waveIdx}, ResponseTimeMs: &result.ResponseTimeMs})
			return nil
		})
	}
	_ = g.Wait()
}

func renderPredecessors(task parsers.Task, results map[string]taskResult, mu *sync.Mutex) string {
	mu.Lock()
	defer mu.Unlock()
	if len(task.Dependencies) == 0 {
		return "none"
	}
	out := ""
	for _, dep := range task.Dependencies {
		r, ok := results[dep]
		if !ok {
			continue
		}
		if !r.ok {
			out += fmt.Sprintf("%s: FAILED (no output available)\n", dep)
			continue
		}
		out += fmt.Sprintf("%s: %s\n", dep, r.output)
	}
	return out
}

func assemble(ctx context.Context, gw gateway.Gateway, cfg Config, question string, tasks []parsers.Task, results map[string]taskResult, timeout time.Duration, rec *stage.Recorder) string {
	var outputs []string
	for _, t := range tasks {
		if r, ok := results[t.ID]; ok && r.ok {
			outputs = append(outputs, r.output)
		}
	}
	assembler := cfg.AssemblerModel
	if assembler == "" {
		assembler = cfg.Workers[0]
	}
	planSummary := renderPlanSummary(tasks)
	result, ok := gw.QueryOne(ctx, assembler, prompts.DecomposeAssemblyPrompt(question, planSummary, outputs), timeout)
	if ok {
		rec.Append(stage.Record{StageType: "assemble", StageOrder: rec.NextOrder(), Model: assembler, Content: result.Content, ResponseTimeMs: &result.ResponseTimeMs})
		return result.Content
	}
	return fallbackAssembly(tasks, results)
}

func renderPlanSummary(tasks []parsers.Task) string {
	out := ""
	for _, t := range tasks {
		out += fmt.Sprintf("%s: %s (deps: %v)\n", t.ID, t.Title, t.Dependencies)
	}
	return out
}

func fallbackAssembly(tasks []parsers.Task, results map[string]taskResult) string {
	out := ""
	var missing []string
	for _, t := range tasks {
		r, ok := results[t.ID]
		if ok && r.ok {
			out += fmt.Sprintf("## %s: %s\n%s\n\n", t.ID, t.Title, r.output)
		} else {
			missing = append(missing, fmt.Sprintf("%s: %s", t.ID, t.Title))
		}
	}
	if len(missing) > 0 {
		out += "## Missing Sub-Tasks\n"
		for _, m := range missing {
			out += fmt.Sprintf("- %s\n", m)
		}
	}
	return out
}
