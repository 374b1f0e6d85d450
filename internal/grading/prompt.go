package grading

import (
	"fmt"
	"strings"
)

const gradingSystemPrompt = `You are an experienced SQL instructor grading a learner's free-text answer to a practice question. Judge whether the SQL is functionally correct for the question asked, not whether it matches one exact reference query. Minor stylistic differences (aliasing, capitalization, join order) are fine; logical errors, missing clauses, and wrong results are not.`

func buildGradingUserMessage(q Question, answer string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Question:\n%s\n", q.Text))
	if q.Difficulty != "" {
		b.WriteString(fmt.Sprintf("\nDifficulty: %s\n", q.Difficulty))
	}

	if len(q.Concepts) > 0 {
		b.WriteString("\nConcepts tested:\n")
		for _, c := range q.Concepts {
			b.WriteString(fmt.Sprintf("- %s\n", c))
		}
	}

	b.WriteString(fmt.Sprintf("\nLearner's answer:\n%s\n", answer))

	b.WriteString(`
Instructions:
1. Decide if the answer is functionally correct for the question.
2. Score it 0-100: 100 for a correct, clean query; partial credit for answers with the right shape but flawed details; 0 for no demonstrated understanding.
3. Give 2-3 sentences of feedback naming the specific problem (or what was done well).
4. Briefly explain the correct approach.
5. From the tested concepts, list those the answer is weak in, and those entirely missing from it.
6. Rate the demonstrated understanding of each tested concept from 0.0 to 1.0.`)

	return b.String()
}
