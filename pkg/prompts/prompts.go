// Package prompts holds pure functions from typed inputs to model prompt
// strings, decoupled from runner control flow (spec.md §9). No function
// here calls the gateway, emits an event, or inspects a parse result — the
// boundary is strictly text in, text out.
package prompts

import (
	"fmt"
	"strings"

	"github.com/councilforge/deliberate/pkg/deliberation"
)

// RenderHistory formats prior conversation turns as alternating
// "User:"/"Assistant:" lines, for multi-turn-capable modes.
func RenderHistory(turns []deliberation.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case deliberation.RoleUser:
			b.WriteString("User: ")
		case deliberation.RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// AnonymizedBlock renders a {label: content} set, ordered by labels, as a
// numbered block of anonymized responses for embedding into a downstream
// prompt.
func AnonymizedBlock(labels []string, contentByLabel map[string]string) string {
	var b strings.Builder
	for _, label := range labels {
		b.WriteString(label)
		b.WriteString(":\n")
		b.WriteString(contentByLabel[label])
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// CollectPrompt builds the initial fan-out prompt shared by every mode's
// first answering phase (Council collect, Vote collect, Jury present, …).
func CollectPrompt(question string, history []deliberation.ConversationTurn) string {
	if len(history) == 0 {
		return question
	}
	return fmt.Sprintf("%s\n%s", RenderHistory(history), question)
}

// RankingPrompt builds Council's rank-phase prompt (spec.md §4.4.1).
func RankingPrompt(question string, labels []string, contentByLabel map[string]string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nHere are anonymized responses from several models:\n\n%s\n\n"+
			"Rank these responses from best to worst. End your reply with a line\n\"FINAL RANKING:\" followed by a numbered list of labels, best first.",
		question, AnonymizedBlock(labels, contentByLabel),
	)
}

// SynthesisPrompt builds Council's chairman synthesis call.
func SynthesisPrompt(question, collectSummary, rankSummary string) string {
	return fmt.Sprintf(
		"Original question:\n%s\n\nStage 1 responses:\n%s\n\nRanking stage:\n%s\n\n"+
			"Write the single best synthesized answer to the original question.",
		question, collectSummary, rankSummary,
	)
}

// VotePrompt builds Vote's vote-phase prompt (spec.md §4.4.2).
func VotePrompt(question string, labels []string, contentByLabel map[string]string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nAnonymized candidate responses:\n\n%s\n\n"+
			"Pick the single best response. End your reply with a line\n\"VOTE: Response X\" where X is the label you are voting for.",
		question, AnonymizedBlock(labels, contentByLabel),
	)
}

// TiebreakerPrompt builds Vote's chairman tiebreaker call over only the
// tied responses.
func TiebreakerPrompt(question string, tiedLabels []string, contentByLabel map[string]string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nThese responses tied for the most votes:\n\n%s\n\n"+
			"Choose the single best one. End your reply with \"VOTE: Response X\".",
		question, AnonymizedBlock(tiedLabels, contentByLabel),
	)
}

// TitlePrompt builds the dispatcher's post-run title-generation call
// (spec.md §4.5): a short label for the conversation, not the answer itself.
func TitlePrompt(question string) string {
	return fmt.Sprintf(
		"Generate a short title (3-5 words) for a conversation that starts with this question. "+
			"Reply with only the title, no punctuation or quotes:\n%s",
		question,
	)
}
