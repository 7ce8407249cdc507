// Package deliberate provides a multi-mode LLM deliberation engine.
//
// Given a question and a chosen mode, the engine orchestrates several
// language-model endpoints through a mode-specific multi-phase pipeline,
// streaming intermediate results to the caller as a sequence of structured
// events while accumulating a per-phase record for later persistence.
//
// # Quick Start
//
// Run a deliberation from the CLI against a configured gateway:
//
//	councild run --mode council --question "Should we ship the migration this week?"
//
// # Using as a Go library
//
// The dispatcher is the single entry point for driving a mode to
// completion against a gateway.Gateway and an events.Sink:
//
//	import (
//	    "github.com/councilforge/deliberate/pkg/dispatch"
//	    "github.com/councilforge/deliberate/pkg/gateway"
//	)
//
// # Architecture
//
// Request → Dispatcher → Mode Runner → {Prompt Templates, Gateway, Parsers,
// Aggregators, Label-Map Engine} → Event Sink + Stage Recorder
//
// Fifteen mode runners (Council, Vote, Jury, Debate, Delphi, Red Team,
// Chain, Specialist Panel, Blueprint, Peer Review, Tournament,
// Confidence-Weighted, Decompose, Brainstorm, Fact-Check) each implement
// one multi-phase state machine over the same collaborator contracts.
//
// # Alpha status
//
// The engine is under active development; mode configuration keys and
// event payload shapes may still change.
package deliberate
