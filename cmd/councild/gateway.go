package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/councilforge/deliberate/pkg/gateway"
)

// loadGateway builds the fixture-backed gateway every councild command runs
// against. The concrete HTTP gateway that talks to a live model provider is
// out of scope for this module (spec.md §1 Non-goals); gateway.Static lets
// the CLI remain fully runnable against scripted replies instead of a
// network endpoint. An empty path yields a gateway that fails every call,
// which is still useful for exercising error paths.
func loadGateway(path string) (gateway.Gateway, error) {
	if path == "" {
		return &gateway.Static{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %q: %w", path, err)
	}

	var fixtures gateway.Static
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures %q: %w", path, err)
	}
	return &fixtures, nil
}
