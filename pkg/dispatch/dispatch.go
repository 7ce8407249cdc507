// Package dispatch wires an incoming deliberation request to the right
// mode runner (spec.md §4.5): it validates the mode id and model count
// against the registry, decodes the mode_config bag into the runner's own
// typed config, drives the run, and appends the title-generation tail.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/logger"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/modes/blueprint"
	"github.com/councilforge/deliberate/pkg/modes/brainstorm"
	"github.com/councilforge/deliberate/pkg/modes/chain"
	"github.com/councilforge/deliberate/pkg/modes/confidence"
	"github.com/councilforge/deliberate/pkg/modes/council"
	"github.com/councilforge/deliberate/pkg/modes/debate"
	"github.com/councilforge/deliberate/pkg/modes/decompose"
	"github.com/councilforge/deliberate/pkg/modes/delphi"
	"github.com/councilforge/deliberate/pkg/modes/factcheck"
	"github.com/councilforge/deliberate/pkg/modes/jury"
	"github.com/councilforge/deliberate/pkg/modes/panel"
	"github.com/councilforge/deliberate/pkg/modes/peerreview"
	"github.com/councilforge/deliberate/pkg/modes/redteam"
	"github.com/councilforge/deliberate/pkg/modes/tournament"
	"github.com/councilforge/deliberate/pkg/modes/vote"
	"github.com/councilforge/deliberate/pkg/observability"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
)

// modeRegistry is the register-once, get-by-id lookup table backing a
// Dispatcher. Unlike a generic registry keyed by arbitrary insertion order,
// list() always returns entries in the canonical order of
// deliberation.Modes, so introspection endpoints (Definitions and
// GET /v1/modes) give callers a stable,
// spec-ordered listing rather than whatever order Go's map iteration
// happens to produce.
type modeRegistry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

func newModeRegistry() *modeRegistry {
	return &modeRegistry{entries: make(map[string]Entry)}
}

func (r *modeRegistry) register(id string, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		return fmt.Errorf("mode id cannot be empty")
	}
	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("mode %q already registered", id)
	}
	r.entries[id] = e
	r.order = append(r.order, id)
	return nil
}

func (r *modeRegistry) get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *modeRegistry) list() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

func (r *modeRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entry is one mode's registered dispatch shape: its definition, a decode
// function that turns the raw mode_config bag into the runner's own typed
// config plus a participant model count, and the runner itself.
type Entry struct {
	Definition deliberation.ModeDefinition
	Decode     func(raw map[string]any) (cfg any, modelCount int, err error)
	Runner     modes.Runner
}

// Request is the decoded shape of spec.md §6's request schema.
type Request struct {
	Question       string
	Mode           string
	ConversationID string
	ModeConfig     map[string]any
	History        []deliberation.ConversationTurn
}

// Outcome is what a completed dispatch hands back to the transport layer
// for persistence: the generated title, the accumulated stage records, and
// whether the run failed.
type Outcome struct {
	Title   string
	Records []stage.Record
	Failed  bool
}

// Dispatcher holds the registry of mode entries and the gateway used both
// for mode runs and the post-run title-generation call.
type Dispatcher struct {
	gw           gateway.Gateway
	titleModel   string
	titleTimeout time.Duration
	entries      *modeRegistry

	metrics *observability.Metrics
	tracer  oteltrace.Tracer
}

// New builds a Dispatcher with every one of the fifteen modes registered.
// titleModel is a low-cost model used only for the post-run title call;
// titleTimeout should be tight (a few seconds), since title failure is
// always non-fatal. Metrics start disabled and tracing starts as a no-op;
// call WithObservability to turn them on.
func New(gw gateway.Gateway, titleModel string, titleTimeout time.Duration) *Dispatcher {
	d := &Dispatcher{
		gw: gw, titleModel: titleModel, titleTimeout: titleTimeout,
		entries: newModeRegistry(), tracer: observability.NoopTracer(),
	}
	for _, e := range buildEntries() {
		if err := d.entries.register(e.Definition.ID, e); err != nil {
			panic(fmt.Sprintf("dispatch: duplicate mode registration: %v", err))
		}
	}
	return d
}

// WithObservability attaches a Metrics collector and Tracer to the
// dispatcher; every subsequent Dispatch call records stage metrics and
// spans. metrics may be nil to leave metrics disabled while still tracing.
func (d *Dispatcher) WithObservability(metrics *observability.Metrics, tracer oteltrace.Tracer) *Dispatcher {
	d.metrics = metrics
	if tracer != nil {
		d.tracer = tracer
	}
	return d
}

func defByID(id string) deliberation.ModeDefinition {
	for _, m := range deliberation.Modes {
		if m.ID == id {
			return m
		}
	}
	panic("dispatch: unknown mode id in deliberation.Modes: " + id)
}

func decodeInto[T any](raw map[string]any) (T, error) {
	var cfg T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func buildEntries() []Entry {
	return []Entry{
		{
			Definition: defByID("council"),
			Runner:     modes.RunnerFunc(council.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[council.Config](raw)
				return cfg, len(cfg.Models), err
			},
		},
		{
			Definition: defByID("vote"),
			Runner:     modes.RunnerFunc(vote.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[vote.Config](raw)
				return cfg, len(cfg.Models), err
			},
		},
		{
			Definition: defByID("jury"),
			Runner:     modes.RunnerFunc(jury.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[jury.Config](raw)
				return cfg, len(cfg.Jurors), err
			},
		},
		{
			Definition: defByID("debate"),
			Runner:     modes.RunnerFunc(debate.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[debate.Config](raw)
				return cfg, len(cfg.Models), err
			},
		},
		{
			Definition: defByID("delphi"),
			Runner:     modes.RunnerFunc(delphi.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[delphi.Config](raw)
				return cfg, len(cfg.Panelists), err
			},
		},
		{
			Definition: defByID("red_team"),
			Runner:     modes.RunnerFunc(redteam.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[redteam.Config](raw)
				return cfg, len(cfg.Attackers), err
			},
		},
		{
			Definition: defByID("chain"),
			Runner:     modes.RunnerFunc(chain.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[chain.Config](raw)
				return cfg, len(cfg.Steps), err
			},
		},
		{
			Definition: defByID("specialist_panel"),
			Runner:     modes.RunnerFunc(panel.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[panel.Config](raw)
				return cfg, len(cfg.Specialists), err
			},
		},
		{
			Definition: defByID("blueprint"),
			Runner:     modes.RunnerFunc(blueprint.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[blueprint.Config](raw)
				return cfg, len(cfg.Authors), err
			},
		},
		{
			Definition: defByID("peer_review"),
			Runner:     modes.RunnerFunc(peerreview.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[peerreview.Config](raw)
				return cfg, len(cfg.Reviewers), err
			},
		},
		{
			Definition: defByID("tournament"),
			Runner:     modes.RunnerFunc(tournament.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[tournament.Config](raw)
				return cfg, len(cfg.Models), err
			},
		},
		{
			Definition: defByID("confidence_weighted"),
			Runner:     modes.RunnerFunc(confidence.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[confidence.Config](raw)
				return cfg, len(cfg.Models), err
			},
		},
		{
			Definition: defByID("decompose"),
			Runner:     modes.RunnerFunc(decompose.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[decompose.Config](raw)
				return cfg, len(cfg.Workers), err
			},
		},
		{
			Definition: defByID("brainstorm"),
			Runner:     modes.RunnerFunc(brainstorm.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[brainstorm.Config](raw)
				return cfg, len(cfg.Ideators), err
			},
		},
		{
			Definition: defByID("fact_check"),
			Runner:     modes.RunnerFunc(factcheck.Run),
			Decode: func(raw map[string]any) (any, int, error) {
				cfg, err := decodeInto[factcheck.Config](raw)
				return cfg, len(cfg.Checkers), err
			},
		},
	}
}

// Dispatch validates req against the registry, decodes its mode_config,
// drives the runner to completion, and (on non-fatal completion) issues
// the title-generation tail. Events are emitted to sink throughout;
// Dispatch's returned error is reserved for requests that never reach a
// runner at all (unknown mode, invalid model count, bad mode_config) —
// those still emit a single "error" event to sink before returning.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, sink events.Sink) (Outcome, error) {
	entry, ok := d.entries.get(req.Mode)
	if !ok {
		msg := fmt.Sprintf("unknown mode %q", req.Mode)
		sink.Emit(events.ErrorEvent(msg))
		return Outcome{Failed: true}, fmt.Errorf("dispatch: %s", msg)
	}

	cfg, modelCount, err := entry.Decode(req.ModeConfig)
	if err != nil {
		msg := fmt.Sprintf("invalid mode_config for %q: %v", req.Mode, err)
		sink.Emit(events.ErrorEvent(msg))
		return Outcome{Failed: true}, fmt.Errorf("dispatch: %s", msg)
	}
	if modelCount < entry.Definition.MinModels || modelCount > entry.Definition.MaxModels {
		msg := fmt.Sprintf("mode %q requires between %d and %d models, got %d", req.Mode, entry.Definition.MinModels, entry.Definition.MaxModels, modelCount)
		sink.Emit(events.ErrorEvent(msg))
		return Outcome{Failed: true}, fmt.Errorf("dispatch: %s", msg)
	}

	messageID := uuid.NewString()
	runAttrs := logger.RunAttrs(req.Mode, req.ConversationID, messageID)
	rec := stage.NewRecorder()
	runReq := modes.Request{
		ConversationID: req.ConversationID,
		MessageID:      messageID,
		Question:       req.Question,
		History:        req.History,
		Config:         cfg,
	}

	slog.Info("dispatch: run started", runAttrs...)
	instrumented := observability.NewStageSink(ctx, sink, d.metrics, d.tracer, req.Mode)
	result := entry.Runner.Run(ctx, runReq, d.gw, instrumented, rec)
	if result.Failed {
		slog.Error("dispatch: run failed", runAttrs...)
		return Outcome{Failed: true, Records: rec.Records()}, nil
	}

	title := d.generateTitle(ctx, req.Question)
	instrumented.Emit(events.Event{Type: events.TitleComplete, Data: map[string]any{"title": title}})
	instrumented.Emit(events.Event{Type: events.Complete, Data: map[string]any{"output": result.Output}})

	slog.Info("dispatch: run completed", runAttrs...)
	return Outcome{Title: title, Records: rec.Records()}, nil
}

// Definitions returns every registered mode's definition, for CLI/HTTP
// introspection endpoints.
func (d *Dispatcher) Definitions() []deliberation.ModeDefinition {
	defs := make([]deliberation.ModeDefinition, 0, d.entries.count())
	for _, e := range d.entries.list() {
		defs = append(defs, e.Definition)
	}
	return defs
}

const (
	maxTitleLength  = 50
	titleEllipsis   = "…"
	fallbackTitle   = "New Conversation"
	titleCallBudget = 10 * time.Second
)

func (d *Dispatcher) generateTitle(ctx context.Context, question string) string {
	timeout := d.titleTimeout
	if timeout <= 0 {
		timeout = titleCallBudget
	}
	result, ok := d.gw.QueryOne(ctx, d.titleModel, prompts.TitlePrompt(question), timeout)
	if !ok {
		return fallbackTitle
	}
	title := cleanTitle(result.Content)
	if title == "" {
		return fallbackTitle
	}
	return title
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'")
	title = strings.TrimSpace(title)
	if len(title) > maxTitleLength {
		title = strings.TrimSpace(title[:maxTitleLength-len(titleEllipsis)]) + titleEllipsis
	}
	return title
}
