// Package gateway defines the model-gateway collaborator contract consumed
// by every mode runner: single-model requests with a per-call timeout, and
// parallel fan-out across several models. The concrete HTTP implementation
// that talks to upstream model providers is out of scope for this module
// (spec.md §1 Non-goals) — this package only fixes the interface and a
// couple of reusable implementations over it.
package gateway

import (
	"context"
	"time"
)

// Turn is one entry of prior conversation history, passed to multi-turn
// capable modes as alternating user/assistant turns.
type Turn struct {
	Role    string // "user" | "assistant"
	Content string
}

// Result is a single model's response to one prompt.
type Result struct {
	Content        string
	ResponseTimeMs int64
}

// Gateway is the single collaborator every mode runner depends on to reach
// language models. Implementations must never panic or return an error for
// a call-site-visible transport failure — query_one returns ok=false and
// query_many simply omits the failed model's entry.
type Gateway interface {
	// QueryOne sends a single prompt to model and returns its result, or
	// ok=false on transport error, non-2xx, or timeout.
	QueryOne(ctx context.Context, model, prompt string, timeout time.Duration) (result Result, ok bool)

	// QueryMany fans prompt out to every model in models in parallel. One
	// model's failure never affects its siblings; the returned map omits
	// failed models entirely.
	QueryMany(ctx context.Context, models []string, prompt string, timeout time.Duration) map[string]Result

	// QueryManyWithMessages is QueryMany's multi-turn variant: each model
	// receives the same prior-turns transcript plus the latest prompt as
	// the final user turn.
	QueryManyWithMessages(ctx context.Context, models []string, turns []Turn, prompt string, timeout time.Duration) map[string]Result
}
