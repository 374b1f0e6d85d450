package estimator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/mastery"
)

// BuildInput serializes the assessment context for one subtopic from the
// ledger state and the knowledge graph.
func BuildInput(graph *curriculum.Graph, state *mastery.SubtopicState) (Input, error) {
	sub, err := graph.SubtopicByID(state.SubtopicID)
	if err != nil {
		return Input{}, fmt.Errorf("building assessment context: %w", err)
	}

	return Input{
		SubtopicName:    sub.Name,
		GraphContext:    graphContext(sub),
		AttemptHistory:  attemptHistory(state.Attempts),
		ConceptCoverage: conceptCoverage(sub, state),
		TotalAttempts:   state.TotalAttempts,
		CorrectAttempts: state.CorrectAttempts,
	}, nil
}

func graphContext(sub curriculum.Subtopic) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subtopic: %s\n", sub.Name))
	if sub.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", sub.Description))
	}

	for _, c := range sub.Clusters {
		b.WriteString(fmt.Sprintf("\n  Cluster: %s (complexity %d)\n", c.Name, c.Complexity))
		if c.Description != "" {
			b.WriteString(fmt.Sprintf("  Description: %s\n", c.Description))
		}
		if c.LearningObjective != "" {
			b.WriteString(fmt.Sprintf("  Objective: %s\n", c.LearningObjective))
		}
		if len(c.SkillsTested) > 0 {
			b.WriteString("  Skills:\n")
			for _, skill := range c.SkillsTested {
				b.WriteString(fmt.Sprintf("    - %s\n", skill))
			}
		}
	}

	return b.String()
}

func attemptHistory(attempts []mastery.Attempt) string {
	var b strings.Builder

	for i, a := range attempts {
		result := "INCORRECT"
		if a.IsCorrect {
			result = "CORRECT"
		}
		b.WriteString(fmt.Sprintf("Attempt #%d [%s, score %d]\n", i+1, result, a.Score))
		b.WriteString(fmt.Sprintf("  Difficulty: %s\n", a.Difficulty))
		if len(a.ConceptsTested) > 0 {
			b.WriteString(fmt.Sprintf("  Concepts tested: %s\n", strings.Join(a.ConceptsTested, ", ")))
		}
		b.WriteString(fmt.Sprintf("  Question: %s\n", a.Text))
		b.WriteString(fmt.Sprintf("  Student's answer: %q\n", a.UserAnswer))
		if a.Explanation != "" {
			b.WriteString(fmt.Sprintf("  Grader notes: %s\n", a.Explanation))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// conceptCoverage summarizes which of the subtopic's skills the attempts
// have touched so far, with per-concept accuracy.
func conceptCoverage(sub curriculum.Subtopic, state *mastery.SubtopicState) string {
	all := make(map[string]struct{})
	for _, c := range sub.Clusters {
		for _, skill := range c.SkillsTested {
			all[skill] = struct{}{}
		}
	}

	covered := make(map[string]struct{}, len(state.ConceptsEncountered))
	for _, name := range state.ConceptsEncountered {
		covered[name] = struct{}{}
	}

	var uncovered []string
	for name := range all {
		if _, ok := covered[name]; !ok {
			uncovered = append(uncovered, name)
		}
	}
	sort.Strings(uncovered)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total skills in subtopic: %d\n", len(all)))
	if len(all) > 0 {
		pct := float64(len(covered)) / float64(len(all)) * 100
		b.WriteString(fmt.Sprintf("Concepts encountered: %d (%.1f%% coverage)\n", len(covered), pct))
	} else {
		b.WriteString(fmt.Sprintf("Concepts encountered: %d\n", len(covered)))
	}
	b.WriteString(fmt.Sprintf("Not yet encountered: %d\n", len(uncovered)))

	if len(state.ConceptsEncountered) > 0 {
		b.WriteString("\nCovered concepts:\n")
		names := append([]string(nil), state.ConceptsEncountered...)
		sort.Strings(names)
		for _, name := range names {
			correct, total := 0, 0
			for _, a := range state.Attempts {
				for _, tested := range a.ConceptsTested {
					if tested != name {
						continue
					}
					total++
					if a.IsCorrect {
						correct++
					}
					break
				}
			}
			b.WriteString(fmt.Sprintf("  - %s: %d/%d correct\n", name, correct, total))
		}
	}

	if len(uncovered) > 0 {
		b.WriteString("\nUncovered concepts:\n")
		for _, name := range uncovered {
			b.WriteString(fmt.Sprintf("  - %s\n", name))
		}
	}

	return b.String()
}
