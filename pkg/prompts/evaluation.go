package prompts

import (
	"fmt"

	"github.com/councilforge/deliberate/pkg/parsers"
)

// JuryDeliberationPrompt builds one juror's scoring call (spec.md §4.4.3).
func JuryDeliberationPrompt(question, candidateResponse string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nEvaluate this response:\n%s\n\n"+
			"Score each of the following dimensions from 1 to 10: %s.\n"+
			"Use the form \"Dimension: N\" for each line. End with a line "+
			"\"VERDICT: APPROVE|REVISE|REJECT\".",
		question, candidateResponse, dimensionList(),
	)
}

func dimensionList() string {
	out := ""
	for i, d := range parsers.JuryDimensions {
		if i > 0 {
			out += ", "
		}
		out += d
	}
	return out
}

// JuryForemanPrompt builds the foreman's synthesis call, which sees every
// juror's raw text plus the computed tally and majority verdict.
func JuryForemanPrompt(question string, jurorTexts []string, tally string, majority string) string {
	block := ""
	for i, t := range jurorTexts {
		block += fmt.Sprintf("Juror %d:\n%s\n\n", i+1, t)
	}
	return fmt.Sprintf(
		"The original question was:\n%s\n\n%s\nComputed tally:\n%s\nComputed majority verdict: %s\n\n"+
			"Write the final verdict synthesis. End with \"VERDICT: APPROVE|REVISE|REJECT\".",
		question, block, tally, majority,
	)
}

// DebateRoundOnePrompt builds the shared initial-answer prompt.
func DebateRoundOnePrompt(question string) string {
	return fmt.Sprintf("Answer the following question as persuasively and accurately as you can:\n%s", question)
}

// DebateRevisionPrompt builds a debater's per-model revision prompt: its
// own original response plus peers' anonymized responses.
func DebateRevisionPrompt(question, ownResponse string, peerLabels []string, peerContentByLabel map[string]string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nYour original answer was:\n%s\n\n"+
			"Here are your peers' anonymized answers:\n\n%s\n\n"+
			"Decide whether to revise. Start your reply with a line\n"+
			"\"DECISION: REVISE|STAND|MERGE\" followed by your (possibly revised) answer.",
		question, ownResponse, AnonymizedBlock(peerLabels, peerContentByLabel),
	)
}

// DelphiClassifyPrompt builds the facilitator's question-classification call.
func DelphiClassifyPrompt(question string) string {
	return fmt.Sprintf(
		"Classify the following question as requiring a numeric estimate or a\n"+
			"qualitative judgment:\n%s\n\n"+
			"Reply with \"CLASS: numeric\" or \"CLASS: qualitative\". If numeric, "+
			"optionally list discrete choice options as \"OPTIONS: a, b, c\".",
		question,
	)
}

// DelphiRoundOnePrompt is identical for every panelist.
func DelphiRoundOnePrompt(question string, numeric bool) string {
	if numeric {
		return fmt.Sprintf("%s\n\nGive your best numeric estimate. End with \"ESTIMATE: <number>\" and a line \"CONFIDENCE: LOW|MEDIUM|HIGH\".", question)
	}
	return fmt.Sprintf("%s\n\nGive your best qualitative answer. End with \"ANSWER: <answer>\" and a line \"CONFIDENCE: LOW|MEDIUM|HIGH\".", question)
}

// DelphiLaterRoundPrompt is per-model: each panelist sees its own prior
// answer plus the aggregate statistics of the previous round, never
// individual peer answers (spec.md §4.4.5's defining anonymity invariant).
func DelphiLaterRoundPrompt(question, ownPriorAnswer, aggregateStatsSummary string, numeric bool) string {
	instruction := "ANSWER: <answer>"
	if numeric {
		instruction = "ESTIMATE: <number>"
	}
	return fmt.Sprintf(
		"%s\n\nYour previous answer was:\n%s\n\nThe panel's aggregate statistics last round were:\n%s\n\n"+
			"Considering this, give your updated answer. End with \"%s\" and a line \"CONFIDENCE: LOW|MEDIUM|HIGH\".",
		question, ownPriorAnswer, aggregateStatsSummary, instruction,
	)
}

// RedTeamAttackPrompt builds one attack-round prompt over the current content.
func RedTeamAttackPrompt(content string) string {
	return fmt.Sprintf(
		"Critically attack the following content. Identify concrete weaknesses.\n\n%s\n\n"+
			"List each weakness as \"FINDING n: <description>\" with a line \"Severity: CRITICAL|HIGH|MEDIUM|LOW\".",
		content,
	)
}

// RedTeamDefendPrompt builds one defense-round prompt over the current
// content and the findings raised against it.
func RedTeamDefendPrompt(content, findingsBlock string) string {
	return fmt.Sprintf(
		"Here is the current content:\n%s\n\nHere are findings raised against it:\n%s\n\n"+
			"For each finding, reply \"RESPONSE TO FINDING n:\" followed by a line "+
			"\"Verdict: ACCEPT|REBUT\" and, if ACCEPT, a revised version of the content.",
		content, findingsBlock,
	)
}

// ChainStepPrompt builds one sequential chain step's prompt.
func ChainStepPrompt(mandate, previousOutput, deferredMandatesNote string) string {
	if previousOutput == "" {
		return mandate
	}
	out := fmt.Sprintf("Previous step's output:\n%s\n\nYour mandate: %s", previousOutput, mandate)
	if deferredMandatesNote != "" {
		out += "\n\nDeferred mandates from earlier failed steps:\n" + deferredMandatesNote
	}
	return out
}
