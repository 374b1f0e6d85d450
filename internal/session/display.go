package session

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/sqlcoach/internal/estimator"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/mastery"
	"github.com/abhisek/sqlcoach/internal/pace"
	"github.com/abhisek/sqlcoach/internal/progression"
	"github.com/abhisek/sqlcoach/internal/ui"
	"github.com/abhisek/sqlcoach/internal/ui/theme"
)

const answerPrompt = "sql> "

func (s *Session) printWelcome() {
	title := "SQL Coach"
	subtitle := fmt.Sprintf("Welcome, %s!", s.cfg.User)
	if topic := s.topicName(); topic != "" {
		subtitle += "  Topic: " + topic
	}
	fmt.Fprintln(s.out, ui.Banner(title, subtitle))
	fmt.Fprintln(s.out, theme.Hint.Render("Answer each question with a SQL query. Type 'quit', 'exit', or 'q' to stop."))
	fmt.Fprintln(s.out)
}

func (s *Session) printQuestion(q *progression.Question, text string) {
	cw := ui.ContentWidth(s.cfg.Width)
	info := q.Info

	fmt.Fprintln(s.out, theme.SectionHeader.Render(fmt.Sprintf("Question #%d", s.questionNum)))
	fmt.Fprintln(s.out, theme.Subtitle.Render(fmt.Sprintf("%s  ·  %s  ·  complexity %d/5",
		info.SubtopicName, info.Cluster.Name, info.Cluster.Complexity)))
	if info.Cluster.LearningObjective != "" {
		fmt.Fprintln(s.out, theme.Subtitle.Render("Objective: "+info.Cluster.LearningObjective))
	}

	if targeted := targetedWeakAreas(s.svc.Tracker.Priority(), info.Cluster.SkillsTested); len(targeted) > 0 {
		fmt.Fprintln(s.out, theme.Concept.Render("Targets your weak areas: "+strings.Join(targeted, ", ")))
	}

	fmt.Fprintln(s.out, ui.Card(text, cw))
}

func (s *Session) printFeedback(j grading.Judgment, est estimator.Estimate) {
	fmt.Fprintln(s.out)
	if j.IsCorrect {
		fmt.Fprintln(s.out, theme.Correct.Render(fmt.Sprintf("✓ Correct! Score: %d/100", j.Score)))
	} else {
		fmt.Fprintln(s.out, theme.Incorrect.Render(fmt.Sprintf("✗ Incorrect. Score: %d/100", j.Score)))
	}

	if j.Feedback != "" {
		fmt.Fprintln(s.out, theme.Body.Render("Feedback: "+j.Feedback))
	}
	if j.Explanation != "" {
		fmt.Fprintln(s.out, theme.Subtitle.Render("Explanation: "+j.Explanation))
	}

	if len(j.WeakConcepts) > 0 {
		fmt.Fprintln(s.out, theme.Body.Render("Struggled with: ")+ui.ConceptList(j.WeakConcepts))
	}
	if len(j.MissingConcepts) > 0 {
		fmt.Fprintln(s.out, theme.Body.Render("Should have used: ")+ui.ConceptList(j.MissingConcepts))
	}
	if len(j.WeakConcepts) > 0 || len(j.MissingConcepts) > 0 {
		fmt.Fprintln(s.out, theme.Hint.Render("Your next questions will focus on these concepts."))
	}

	if len(j.ConceptUnderstanding) > 0 {
		fmt.Fprintln(s.out, theme.Body.Render("Concept understanding:"))
		for _, name := range sortedKeys(j.ConceptUnderstanding) {
			pct := int(j.ConceptUnderstanding[name] * 100)
			fmt.Fprintln(s.out, theme.Subtitle.Render(fmt.Sprintf("  - %s: %d%%", name, pct)))
		}
	}

	fmt.Fprintln(s.out, theme.Body.Render(fmt.Sprintf("Mastery estimate: %.1f%% (confidence: %s)",
		est.MasteryProbability*100, est.Confidence)))
	if est.Feedback != "" {
		fmt.Fprintln(s.out, theme.Subtitle.Render(est.Feedback))
	}
}

func (s *Session) printMastered(t *mastery.Transition) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, theme.Mastered.Render(fmt.Sprintf("🎉 Subtopic mastered: %s!", t.SubtopicName)))
}

func (s *Session) printAdvance(ev *progression.AdvanceEvent) {
	fmt.Fprintln(s.out, theme.SectionHeader.Render("Moving on to: "+ev.To.Name))
	if ev.To.Description != "" {
		fmt.Fprintln(s.out, theme.Subtitle.Render(ev.To.Description))
	}
	fmt.Fprintln(s.out)
}

func (s *Session) printComplete(message string) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, theme.Mastered.Render(message))
	s.printStatus()
}

func (s *Session) printGoodbye() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, theme.Body.Render(fmt.Sprintf("Session saved after %d answers. See you next time!", s.attempts)))
}

// printStatus renders the progress block shown between questions.
func (s *Session) printStatus() {
	cw := ui.ContentWidth(s.cfg.Width)
	states := s.svc.Ledger.States()
	current, hasCurrent := s.svc.Controller.Current()

	var b strings.Builder
	mastered := 0
	for _, st := range states {
		marker := "∙"
		var label string
		switch {
		case st.MasteryAchieved:
			marker = theme.Correct.Render("✓")
			label = "mastered"
			mastered++
		case hasCurrent && st.SubtopicID == current.ID:
			marker = theme.Title.Render("▸")
			label = fmt.Sprintf("%.0f%% (%d attempts)", st.MasteryProbability*100, st.TotalAttempts)
		default:
			label = "not started"
		}
		b.WriteString(fmt.Sprintf("%s %-26s %s\n", marker, st.Name, theme.Subtitle.Render(label)))
	}

	overall := 0.0
	if len(states) > 0 {
		overall = float64(mastered) / float64(len(states))
	}
	b.WriteString(ui.NewProgressBar("Overall", overall, true, cw-4).View())
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Learning pace: %s %s\n", paceIcon(s.profile.Category), strings.ToUpper(s.profile.Category)))

	if weak := s.svc.Tracker.Weak(); len(weak) > 0 {
		parts := make([]string, 0, len(weak))
		for _, w := range weak {
			parts = append(parts, fmt.Sprintf("%s (%dx)", w.Name, w.Occurrences))
		}
		b.WriteString("Weak concepts: " + strings.Join(parts, ", ") + "\n")
	}
	if gaps := s.svc.Tracker.Gaps(); len(gaps) > 0 {
		b.WriteString("Concept gaps: " + strings.Join(gaps, ", ") + "\n")
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, ui.Card(strings.TrimRight(b.String(), "\n"), cw))
	fmt.Fprintln(s.out)
}

func paceIcon(category string) string {
	switch category {
	case pace.CategoryFast:
		return "🚀"
	case pace.CategorySlow:
		return "🐢"
	default:
		return "🚶"
	}
}

// targetedWeakAreas returns the priority concepts this cluster's skills
// actually cover, for the "targets your weak areas" callout.
func targetedWeakAreas(priority, skills []string) []string {
	var targeted []string
	for _, concept := range priority {
		cl := strings.ToLower(concept)
		for _, skill := range skills {
			sl := strings.ToLower(skill)
			if strings.Contains(sl, cl) || strings.Contains(cl, sl) {
				targeted = append(targeted, concept)
				break
			}
		}
	}
	return targeted
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	brTag  = regexp.MustCompile(`(?i)<br\s*/?>`)
	liTag  = regexp.MustCompile(`(?i)<li[^>]*>`)
	anyTag = regexp.MustCompile(`<[^>]+>`)
)

// stripHTML converts the bank's lightly-marked-up descriptions to plain
// console text.
func stripHTML(s string) string {
	s = brTag.ReplaceAllString(s, "\n")
	s = liTag.ReplaceAllString(s, "\n- ")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
