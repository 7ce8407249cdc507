// Package stage implements the per-phase stage record (spec.md §3) that
// every mode runner accumulates and returns to the dispatcher on exit, for
// the persistence collaborator to store atomically against a message id.
package stage

import "sync"

// Record is one externally visible phase of a run: a model call, a
// synthesis step, or a server-side computation worth persisting for
// later retrieval. stage_order is monotonic-non-decreasing within a run;
// stage_type uniquely names the semantic phase it belongs to.
type Record struct {
	StageType      string `json:"stage_type"`
	StageOrder     int    `json:"stage_order"`
	Model          string `json:"model,omitempty"`
	Role           string `json:"role,omitempty"`
	Content        string `json:"content"`
	ParsedData     any    `json:"parsed_data,omitempty"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
}

// Recorder appends stage records in order on behalf of a single run. It is
// safe for concurrent Append calls from parallel fan-out goroutines within
// one stage; order across stages is still whatever order the runner calls
// Append in, since stage_order is assigned by the caller, not derived from
// append order.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	next    int
}

// NewRecorder returns an empty Recorder starting stage_order at 0.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NextOrder returns the next monotonic stage_order value and advances the
// counter. Runners call it once per semantic phase (not per model call
// within a parallel phase), so all stage records of one phase share an
// order value.
func (r *Recorder) NextOrder() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := r.next
	r.next++
	return order
}

// Append records one stage, thread-safe for concurrent callers within a
// parallel fan-out.
func (r *Recorder) Append(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of all stages appended so far, in append order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Sink is the persistence collaborator contract: on run completion the
// dispatcher hands it the accumulated stage records for a message id. The
// concrete relational implementation is out of scope for this module.
type Sink interface {
	Persist(messageID string, records []Record) error
}

// Discard is a Sink that drops every record; useful for CLI runs and tests
// that only care about the emitted event stream.
type Discard struct{}

func (Discard) Persist(string, []Record) error { return nil }
