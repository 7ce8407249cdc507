package prompts

import "fmt"

// SpecialistPanelPrompt role-templates a specialist's prompt with its
// fixed priorities, criteria, and lens (spec.md §4.4.8).
func SpecialistPanelPrompt(question, roleName, roleLens string) string {
	return fmt.Sprintf(
		"You are acting as: %s.\nYour lens: %s\n\nQuestion:\n%s\n\n"+
			"Produce a criterion table, your top-3 recommendations, and key findings.",
		roleName, roleLens, question,
	)
}

// SpecialistSynthesisPrompt builds the synthesis call over every successful
// specialist report.
func SpecialistSynthesisPrompt(question string, reports []string) string {
	block := ""
	for i, r := range reports {
		block += fmt.Sprintf("Specialist %d:\n%s\n\n", i+1, r)
	}
	return fmt.Sprintf("Question:\n%s\n\n%s\nSynthesize these specialist reports into one coherent recommendation.", question, block)
}

// BlueprintOutlinePrompt builds the architect's one-shot outline call.
func BlueprintOutlinePrompt(question string) string {
	return fmt.Sprintf(
		"Design a document outline for:\n%s\n\n"+
			"Begin with \"DOCUMENT TITLE: <title>\". Then for each section, write "+
			"\"SECTION n: <title>\" followed by Description, Key Topics (dash items), "+
			"Length (Short|Medium|Long), and Source Coverage.",
		question,
	)
}

// BlueprintOutlineStrictRetryPrompt is used when the planner's DAG analogue
// (here, the section list) needs a stricter second attempt.
func BlueprintOutlineStrictRetryPrompt(question string) string {
	return BlueprintOutlinePrompt(question) + "\n\nYour previous outline did not parse; follow the format exactly this time."
}

// BlueprintAuthorPrompt gives an author the full outline as read-only
// context plus its one assigned section.
func BlueprintAuthorPrompt(fullOutline, assignedSectionTitle, assignedSectionDescription string) string {
	return fmt.Sprintf(
		"Full document outline (read-only context):\n%s\n\n"+
			"Write the full content for your assigned section only: \"%s\"\n%s",
		fullOutline, assignedSectionTitle, assignedSectionDescription,
	)
}

// BlueprintAssemblyPrompt builds the assembler's one-shot call.
func BlueprintAssemblyPrompt(title string, sectionBodies []string) string {
	block := ""
	for i, b := range sectionBodies {
		block += fmt.Sprintf("## Section %d\n%s\n\n", i+1, b)
	}
	return fmt.Sprintf("Assemble the final document titled \"%s\" from these section drafts:\n\n%s", title, block)
}

// PeerReviewPrompt parameterizes a reviewer's prompt by a rubric.
func PeerReviewPrompt(content, rubricDescription string) string {
	return fmt.Sprintf(
		"Review the following content against this rubric:\n%s\n\nContent:\n%s\n\n"+
			"Produce a markdown scoring table (criterion | score | weight | justification), "+
			"then list issues as \"FINDING n: <description>\" with a line "+
			"\"Severity: CRITICAL|MAJOR|MINOR|SUGGESTION\".",
		rubricDescription, content,
	)
}

// PeerReviewConsolidationPrompt builds the one-shot consolidation call.
func PeerReviewConsolidationPrompt(content string, reviewerReports []string) string {
	block := ""
	for i, r := range reviewerReports {
		block += fmt.Sprintf("Reviewer %d:\n%s\n\n", i+1, r)
	}
	return fmt.Sprintf("Content under review:\n%s\n\n%s\nConsolidate these reviews into one final assessment.", content, block)
}

// TournamentMatchupPrompt judges two anonymized responses head to head.
func TournamentMatchupPrompt(question string, labelA, contentA, labelB, contentB string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\n%s:\n%s\n\n%s:\n%s\n\n"+
			"Judge which response is better. End with \"WINNER: Response A\" or \"WINNER: Response B\".",
		question, labelA, contentA, labelB, contentB,
	)
}

// TournamentMatchupStrictRetryPrompt is the strict-format retry after a
// parse failure.
func TournamentMatchupStrictRetryPrompt(question, labelA, contentA, labelB, contentB string) string {
	return TournamentMatchupPrompt(question, labelA, contentA, labelB, contentB) +
		"\n\nYour previous reply did not end with the required WINNER line; follow the format exactly this time."
}

// ConfidenceAnswerPrompt asks a model to answer with a self-rated
// confidence.
func ConfidenceAnswerPrompt(question string) string {
	return fmt.Sprintf("%s\n\nAnswer the question, then end with a line \"CONFIDENCE: <0-1 or 0-100%%>\".", question)
}

// ConfidenceSynthesisPrompt presents responses sorted by weight descending
// with outlier tags.
func ConfidenceSynthesisPrompt(question string, weightedBlock string) string {
	return fmt.Sprintf(
		"The original question was:\n%s\n\nResponses, ordered by computed confidence weight "+
			"(outliers flagged):\n\n%s\n\nWrite \"SYNTHESIS:\" followed by the best combined answer, "+
			"then \"CONFIDENCE CALIBRATION NOTES:\" describing how you weighed disagreement and outliers.",
		question, weightedBlock,
	)
}

// DecomposePlanPrompt builds the planner's one-shot task-breakdown call.
func DecomposePlanPrompt(question string) string {
	return fmt.Sprintf(
		"Break the following goal into a task DAG:\n%s\n\n"+
			"For each task, write \"TASK task_i:\" followed by Title, Description, "+
			"Dependencies (comma-separated task ids, or \"none\"), Complexity (LOW|MEDIUM|HIGH), and Expertise. "+
			"The dependency graph MUST be a DAG (no cycles).",
		question,
	)
}

// DecomposePlanStrictRetryPrompt is the strict "must be a DAG" retry.
func DecomposePlanStrictRetryPrompt(question string) string {
	return DecomposePlanPrompt(question) + "\n\nYour previous plan contained a dependency cycle; produce an acyclic plan this time."
}

// DecomposeWorkerPrompt gives a worker predecessor outputs, with a failure
// note for failed predecessors.
func DecomposeWorkerPrompt(taskTitle, taskDescription, predecessorsBlock string) string {
	return fmt.Sprintf("Task: %s\n%s\n\nPredecessor outputs:\n%s\n\nComplete this task.", taskTitle, taskDescription, predecessorsBlock)
}

// DecomposeAssemblyPrompt builds the assembler's one-shot call.
func DecomposeAssemblyPrompt(goal, planSummary string, taskOutputs []string) string {
	block := ""
	for i, o := range taskOutputs {
		block += fmt.Sprintf("task_%d output:\n%s\n\n", i+1, o)
	}
	return fmt.Sprintf("Goal:\n%s\n\nPlan:\n%s\n\n%s\nAssemble the final deliverable.", goal, planSummary, block)
}

// BrainstormIdeatePrompt asks one model to generate ideas in parallel.
func BrainstormIdeatePrompt(topic string) string {
	return fmt.Sprintf(
		"Brainstorm ideas for:\n%s\n\n"+
			"Write each idea as \"IDEA n: <short title>\" followed by a one-paragraph body.",
		topic,
	)
}

// BrainstormClusterPrompt asks the curator to group ideas into clusters.
func BrainstormClusterPrompt(ideasBlock string, maxClusters int) string {
	return fmt.Sprintf(
		"Group the following ideas into at most %d clusters:\n\n%s\n\n"+
			"For each cluster, write \"CLUSTER n:\" followed by Name, Theme, "+
			"Promise (HIGH|MEDIUM|LOW), and \"Ideas: id, id, ...\" referencing the idea ids given.",
		maxClusters, ideasBlock,
	)
}

// BrainstormScorePrompt asks a scorer to rate a cluster.
func BrainstormScorePrompt(clusterName, clusterSummary string) string {
	return fmt.Sprintf(
		"Rate this idea cluster \"%s\":\n%s\n\n"+
			"Reply with \"Novelty=n Feasibility=n Impact=n\" using 1-5 integers.",
		clusterName, clusterSummary,
	)
}

// BrainstormRefinePrompt asks the refiner to polish the winning (and tied)
// clusters.
func BrainstormRefinePrompt(winningClustersBlock string) string {
	return fmt.Sprintf("Refine and present the winning idea cluster(s) as a final recommendation:\n\n%s", winningClustersBlock)
}

// FactCheckGeneratePrompt optionally generates content to be fact-checked.
func FactCheckGeneratePrompt(question string) string {
	return fmt.Sprintf("Write a detailed, factual response to:\n%s", question)
}

// FactCheckExtractPrompt asks the extractor to enumerate checkable claims.
func FactCheckExtractPrompt(content string) string {
	return fmt.Sprintf(
		"Extract every checkable factual claim from the following content:\n\n%s\n\n"+
			"For each, write \"CLAIM n: <claim text>\" followed by Context and "+
			"Type (STATISTIC|DATE|ATTRIBUTION|TECHNICAL|COMPARISON|CAUSAL).",
		content,
	)
}

// FactCheckVerifyPrompt asks one checker to verify a batch of claims.
func FactCheckVerifyPrompt(claimsBlock string) string {
	return fmt.Sprintf(
		"Verify each of the following claims:\n\n%s\n\n"+
			"For each, write \"VERIFICATION claim_n: VERDICT\" where VERDICT is "+
			"VERIFIED|DISPUTED|UNVERIFIABLE, followed by Evidence, Correction (or \"N/A\"), "+
			"and Confidence (HIGH|MEDIUM|LOW).",
		claimsBlock,
	)
}

// FactCheckReportPrompt asks the reporter to summarize consensus per claim.
func FactCheckReportPrompt(consensusBlock string) string {
	return fmt.Sprintf(
		"Here is the consensus verdict for each claim:\n\n%s\n\n"+
			"Write a final fact-check report. End with \"Reliability Score: n\" (0-100).",
		consensusBlock,
	)
}
