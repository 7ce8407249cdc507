package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/councilforge/deliberate/pkg/events"
)

// StageSink wraps an events.Sink and records a Prometheus counter/histogram
// observation plus an OpenTelemetry span for every phase of one deliberation
// run. It keys off the "<phase>_start" / "<phase>_complete" events the mode
// runners emit, so instrumentation needs no changes to the fifteen mode
// packages themselves. A phase is recorded only when its "_start" event
// opens it: a "<phase>_complete" that arrives with no open phase records
// nothing. Some runners emit only the completion event for a phase (Delphi's
// rounds, the "winner" phase of Vote, Debate and Tournament, and the skipped
// phases of Brainstorm, Confidence-Weighted and Fact-Check), so those phases
// produce no metric or span.
type StageSink struct {
	inner   events.Sink
	metrics *Metrics
	tracer  trace.Tracer
	mode    string

	modeStarted bool

	ctx      context.Context
	modeSpan trace.Span

	phase      string
	phaseStart time.Time
	phaseSpan  trace.Span
}

// NewStageSink starts the root span for the run and returns a Sink ready to
// wrap the one passed to a mode runner. metrics may be nil (metrics
// disabled); tracer must be non-nil — pass NoopTracer() when tracing is off.
func NewStageSink(ctx context.Context, inner events.Sink, metrics *Metrics, tracer trace.Tracer, mode string) *StageSink {
	spanCtx, span := tracer.Start(ctx, "deliberation."+mode)
	return &StageSink{inner: inner, metrics: metrics, tracer: tracer, mode: mode, ctx: spanCtx, modeSpan: span}
}

func (s *StageSink) Emit(e events.Event) {
	s.inner.Emit(e)

	switch {
	case e.Type == events.Error:
		s.closePhase("error")
		s.modeSpan.End()
	case e.Type == events.Complete:
		s.closePhase("ok")
		s.modeSpan.End()
	case e.Type == events.TitleComplete:
		// not a deliberation phase; nothing to record
	case e.Type == events.Start(s.mode) && !s.modeStarted:
		// the run's own "<mode>_start"; a later event of the same name is a
		// phase (Vote's "vote" phase)
		s.modeStarted = true
	case strings.HasSuffix(string(e.Type), "_start"):
		s.closePhase("ok")
		s.phase = strings.TrimSuffix(string(e.Type), "_start")
		s.phaseStart = time.Now()
		_, s.phaseSpan = s.tracer.Start(s.ctx, "phase."+s.phase)
	case strings.HasSuffix(string(e.Type), "_complete"):
		outcome := "ok"
		if data, ok := e.Data.(map[string]any); ok {
			if skipped, _ := data["skipped"].(bool); skipped {
				outcome = "skipped"
			}
		}
		s.closePhase(outcome)
	}
}

// closePhase records the currently open phase (if any) with the given
// outcome and ends its span. A no-op when no phase is open, so it is safe
// to call defensively from Error/Complete as well as from phase transitions.
func (s *StageSink) closePhase(outcome string) {
	if s.phase == "" {
		return
	}
	s.metrics.RecordStage(s.mode, s.phase, outcome, time.Since(s.phaseStart))
	if s.phaseSpan != nil {
		s.phaseSpan.End()
		s.phaseSpan = nil
	}
	s.phase = ""
}
