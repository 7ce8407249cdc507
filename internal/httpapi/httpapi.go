// Package httpapi is a thin HTTP transport over the dispatcher (spec.md §6):
// it decodes the request schema, invokes dispatch.Dispatcher, and writes the
// SSE frame format. It owns no business logic beyond wire translation.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/councilforge/deliberate/pkg/deliberation"
	"github.com/councilforge/deliberate/pkg/dispatch"
	"github.com/councilforge/deliberate/pkg/events"
)

// Runner is the subset of *dispatch.Dispatcher this package depends on, so
// handler tests can substitute a fake without constructing a real gateway
// and mode registry.
type Runner interface {
	Dispatch(ctx context.Context, req dispatch.Request, sink events.Sink) (dispatch.Outcome, error)
}

var _ Runner = (*dispatch.Dispatcher)(nil)

// NewRouter builds the chi router exposing POST /v1/deliberate and a mode
// listing at GET /v1/modes.
func NewRouter(d Runner, modes []deliberation.ModeDefinition) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/deliberate", handleDeliberate(d))
		r.Get("/modes", handleModes(modes))
	})
	return r
}

func handleModes(modes []deliberation.ModeDefinition) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(modes)
	}
}

// requestBody is the wire shape of spec.md §6's request schema.
type requestBody struct {
	Question       string         `json:"question"`
	Mode           string         `json:"mode"`
	ConversationID string         `json:"conversationId"`
	ModeConfig     map[string]any `json:"modeConfig"`
}

func handleDeliberate(d Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
			return
		}
		if body.Question == "" || body.Mode == "" {
			http.Error(w, "question and mode are required", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		sink := &sseSink{w: w, flusher: flusher}
		_, _ = d.Dispatch(r.Context(), dispatch.Request{
			Question:       body.Question,
			Mode:           body.Mode,
			ConversationID: body.ConversationID,
			ModeConfig:     body.ModeConfig,
		}, sink)
	}
}

// sseSink adapts events.Sink to the SSE frame format: "data: {json}\n\n",
// flushed after every event so the client sees progress as it happens.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Emit(e events.Event) {
	body, err := events.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "data: %s\n\n", body)
	s.flusher.Flush()
}
