// Package deliberation holds the process-wide value types shared by every
// mode runner: stage-1 responses, conversation turns, and the immutable
// mode definition table (spec.md §3).
package deliberation

// StageOneResponse is a model's first-round answer. Created only when a
// model returns non-empty content; immutable thereafter.
type StageOneResponse struct {
	Model          string `json:"model"`
	Response       string `json:"response"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
}

// Role is a conversation turn's speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry of prior multi-turn history, passed to
// multi-turn-capable modes (Council, Vote, Confidence-Weighted) as prior
// context before the current question.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Family groups related modes for registry introspection and CLI listing.
type Family string

const (
	FamilyConsensus   Family = "consensus"
	FamilyEvaluation  Family = "evaluation"
	FamilyAdversarial Family = "adversarial"
	FamilySequential  Family = "sequential"
	FamilyGenerative  Family = "generative"
)

// ModeDefinition is the immutable, process-wide description of one
// deliberation mode (spec.md §3).
type ModeDefinition struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Family              Family `json:"family"`
	MinModels           int    `json:"minModels"`
	MaxModels           int    `json:"maxModels"`
	RequiresSpecialRole bool   `json:"requiresSpecialRole"`
	SupportsMultiTurn   bool   `json:"supportsMultiTurn"`
	EstimatedDurationMs int64  `json:"estimatedDurationMs"`
}

// Modes is the process-wide table of every supported deliberation mode.
var Modes = []ModeDefinition{
	{ID: "council", Name: "Council", Family: FamilyConsensus, MinModels: 2, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: true, EstimatedDurationMs: 45_000},
	{ID: "vote", Name: "Vote", Family: FamilyConsensus, MinModels: 2, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: true, EstimatedDurationMs: 30_000},
	{ID: "jury", Name: "Jury", Family: FamilyEvaluation, MinModels: 3, MaxModels: 6, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 40_000},
	{ID: "debate", Name: "Debate", Family: FamilyAdversarial, MinModels: 2, MaxModels: 4, RequiresSpecialRole: false, SupportsMultiTurn: false, EstimatedDurationMs: 60_000},
	{ID: "delphi", Name: "Delphi", Family: FamilyConsensus, MinModels: 3, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 90_000},
	{ID: "red_team", Name: "Red Team", Family: FamilyAdversarial, MinModels: 2, MaxModels: 4, RequiresSpecialRole: false, SupportsMultiTurn: false, EstimatedDurationMs: 70_000},
	{ID: "chain", Name: "Chain", Family: FamilySequential, MinModels: 1, MaxModels: 8, RequiresSpecialRole: false, SupportsMultiTurn: false, EstimatedDurationMs: 50_000},
	{ID: "specialist_panel", Name: "Specialist Panel", Family: FamilyEvaluation, MinModels: 2, MaxModels: 6, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 50_000},
	{ID: "blueprint", Name: "Blueprint", Family: FamilySequential, MinModels: 2, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 80_000},
	{ID: "peer_review", Name: "Peer Review", Family: FamilyEvaluation, MinModels: 2, MaxModels: 6, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 50_000},
	{ID: "tournament", Name: "Tournament", Family: FamilyAdversarial, MinModels: 2, MaxModels: 16, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 70_000},
	{ID: "confidence_weighted", Name: "Confidence-Weighted", Family: FamilyConsensus, MinModels: 1, MaxModels: 8, RequiresSpecialRole: false, SupportsMultiTurn: true, EstimatedDurationMs: 35_000},
	{ID: "decompose", Name: "Decompose", Family: FamilySequential, MinModels: 1, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 90_000},
	{ID: "brainstorm", Name: "Brainstorm", Family: FamilyGenerative, MinModels: 2, MaxModels: 8, RequiresSpecialRole: true, SupportsMultiTurn: false, EstimatedDurationMs: 60_000},
	{ID: "fact_check", Name: "Fact-Check", Family: FamilyEvaluation, MinModels: 2, MaxModels: 6, RequiresSpecialRole: false, SupportsMultiTurn: false, EstimatedDurationMs: 55_000},
}
