package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/councilforge/deliberate/pkg/dispatch"
	"github.com/councilforge/deliberate/pkg/events"
)

// RunCmd executes a single deliberation against the fixture-backed gateway
// and prints its SSE frame stream to stdout, one "data: {...}" line per
// event, matching the wire format the HTTP transport writes to a real
// client.
type RunCmd struct {
	Mode           string        `required:"" help:"Deliberation mode id (see 'councild modes')."`
	Question       string        `required:"" help:"The question to deliberate."`
	ConversationID string        `name:"conversation-id" help:"Conversation id to associate this run with."`
	ModeConfig     string        `name:"mode-config" help:"Path to a JSON file holding the mode_config bag." type:"path"`
	TitleModel     string        `name:"title-model" default:"titler-small" help:"Model used for the post-run title call."`
	Timeout        time.Duration `default:"90s" help:"Per-model call timeout."`
}

func (c *RunCmd) Run(cli *CLI) error {
	gw, err := loadGateway(cli.Fixtures)
	if err != nil {
		return err
	}

	modeConfig, err := loadModeConfig(c.ModeConfig)
	if err != nil {
		return err
	}
	if modeConfig == nil {
		modeConfig = map[string]any{}
	}
	if _, set := modeConfig["timeout"]; !set {
		modeConfig["timeout"] = c.Timeout.String()
	}

	d := dispatch.New(gw, c.TitleModel, 10*time.Second)

	sink := &stdoutSink{}
	_, err = d.Dispatch(context.Background(), dispatch.Request{
		Question:       c.Question,
		Mode:           c.Mode,
		ConversationID: c.ConversationID,
		ModeConfig:     modeConfig,
	}, sink)
	return err
}

func loadModeConfig(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mode config %q: %w", path, err)
	}
	var cfg map[string]any
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse mode config %q: %w", path, err)
	}
	return cfg, nil
}

// stdoutSink writes each event as an SSE frame to stdout, exactly as
// internal/httpapi's sseSink would write it over the wire.
type stdoutSink struct{}

func (stdoutSink) Emit(e events.Event) {
	body, err := events.Marshal(e)
	if err != nil {
		return
	}
	fmt.Printf("data: %s\n\n", body)
}
