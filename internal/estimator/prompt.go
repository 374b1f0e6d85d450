package estimator

import (
	"fmt"
	"strings"
)

const assessmentSystemPrompt = `You are an experienced learning assessor estimating how well a student has mastered a SQL subtopic. Weigh the whole attempt history: recent answers carry more signal than early stumbles, harder questions answered well count for more, and breadth of concept coverage matters as much as raw accuracy. Never assign a high mastery probability on the strength of a single attempt, however strong.`

func buildAssessmentUserMessage(in Input) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subtopic under assessment: %s\n", in.SubtopicName))

	b.WriteString("\nSubtopic structure:\n")
	b.WriteString(in.GraphContext)

	b.WriteString("\nAttempt history:\n")
	b.WriteString(in.AttemptHistory)

	b.WriteString("\nConcept coverage:\n")
	b.WriteString(in.ConceptCoverage)

	accuracy := 0.0
	if in.TotalAttempts > 0 {
		accuracy = float64(in.CorrectAttempts) / float64(in.TotalAttempts) * 100
	}
	b.WriteString(fmt.Sprintf("\nTotals: %d attempts, %d correct (%.1f%% accuracy)\n",
		in.TotalAttempts, in.CorrectAttempts, accuracy))

	b.WriteString(`
Instructions:
1. Estimate the probability (0.0-1.0) that the student has mastered this subtopic.
2. Give 2-3 sentences of feedback on their trajectory and what to practice next.
3. State your confidence in the estimate: low, medium or high.
4. Say whether you consider the subtopic mastered.`)

	return b.String()
}
