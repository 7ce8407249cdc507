package gateway

import (
	"context"
	"fmt"
	"time"
)

// Static is a deterministic test double for Gateway. It is keyed by model
// id only (the prompt is ignored); tests script different replies to
// different phases of a pipeline through Sequenced, without a live
// upstream. A model listed in Fail, or found in neither Sequenced nor
// Replies, fails on every call.
type Static struct {
	// Replies maps model id to the content it should return. A model
	// absent from this map is treated as always failing.
	Replies map[string]string

	// Sequenced, if set, overrides Replies: each call to a model pops the
	// next entry from its queue, letting a single model answer
	// differently across rounds (e.g. Debate round 1 vs revision).
	Sequenced map[string][]string

	// Fail lists models that must fail regardless of Replies/Sequenced.
	Fail map[string]bool

	// Latency is returned as every successful call's ResponseTimeMs.
	Latency int64

	calls int
}

var _ Gateway = (*Static)(nil)

// CallCount returns the number of QueryOne invocations observed so far,
// including those made indirectly through QueryMany/QueryManyWithMessages.
func (s *Static) CallCount() int { return s.calls }

func (s *Static) QueryOne(_ context.Context, model, _ string, _ time.Duration) (Result, bool) {
	s.calls++
	if s.Fail[model] {
		return Result{}, false
	}
	if queue, ok := s.Sequenced[model]; ok {
		if len(queue) == 0 {
			return Result{}, false
		}
		content := queue[0]
		s.Sequenced[model] = queue[1:]
		return Result{Content: content, ResponseTimeMs: s.Latency}, true
	}
	content, ok := s.Replies[model]
	if !ok {
		return Result{}, false
	}
	return Result{Content: content, ResponseTimeMs: s.Latency}, true
}

func (s *Static) QueryMany(ctx context.Context, models []string, prompt string, timeout time.Duration) map[string]Result {
	out := make(map[string]Result, len(models))
	for _, m := range models {
		if r, ok := s.QueryOne(ctx, m, prompt, timeout); ok {
			out[m] = r
		}
	}
	return out
}

func (s *Static) QueryManyWithMessages(ctx context.Context, models []string, turns []Turn, prompt string, timeout time.Duration) map[string]Result {
	rendered := prompt
	for _, t := range turns {
		rendered = fmt.Sprintf("%s\n%s: %s", rendered, t.Role, t.Content)
	}
	return s.QueryMany(ctx, models, rendered, timeout)
}
