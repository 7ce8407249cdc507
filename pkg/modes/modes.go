// Package modes defines the contract every one of the fifteen pipeline
// state machines implements (spec.md §4.4): given a request and a gateway,
// drive phases to completion, emitting events and stage records as it goes.
package modes

import (
	"context"

	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/stage"
)

// Request is the input every runner receives: the question, any prior
// turns (for multi-turn-capable modes), and the mode_config bag already
// decoded into the mode's own typed config.
type Request struct {
	ConversationID string
	MessageID      string
	Question       string
	History        []deliberation.ConversationTurn
	Config         any // decoded by the runner's own config type via mapstructure
}

// Result is what a runner returns after its state machine halts, whether
// by normal completion or by a fatal error. Failed is true when the
// runner emitted a terminal "error" event itself; the dispatcher must not
// proceed to title generation or "complete" in that case.
type Result struct {
	Output string
	Failed bool
}

// Runner is the shared contract for all fifteen mode implementations.
type Runner interface {
	// Run drives one mode's full state machine. It emits events to sink in
	// declared phase order, appends stage records to rec, and returns once
	// the run has terminated (normally or fatally).
	Run(ctx context.Context, req Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) Result
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, req Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) Result

func (f RunnerFunc) Run(ctx context.Context, req Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) Result {
	return f(ctx, req, gw, sink, rec)
}

// Fatal emits a terminal error event and returns a Result flagging it, the
// idiom every runner uses on a phase-fatal condition (spec.md §7).
func Fatal(sink events.Sink, message string) Result {
	sink.Emit(events.ErrorEvent(message))
	return Result{Failed: true}
}
