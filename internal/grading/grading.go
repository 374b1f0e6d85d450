package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/logging"
)

// Config holds configuration for the LLM grader.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.2,
	}
}

// Grader judges free-text SQL answers via the LLM.
type Grader struct {
	provider llm.Provider
	cfg      Config
	log      *slog.Logger
}

// NewGrader creates an LLM-based grader.
func NewGrader(provider llm.Provider, cfg Config) *Grader {
	return &Grader{provider: provider, cfg: cfg, log: logging.New("grading")}
}

// noAnswerPhrases are trimmed, lowercased inputs treated as declining to
// answer. They short-circuit grading without an LLM call.
var noAnswerPhrases = map[string]struct{}{
	"i dont know":  {},
	"idk":          {},
	"skip":         {},
	"dont know":    {},
	"i don't know": {},
}

// Grade judges the learner's answer. It never returns an error: no-answer
// inputs short-circuit to a zero judgment, and any grading failure degrades
// to an incorrect zero-score judgment with the failure surfaced in the
// explanation. The session always gets something it can display.
func (g *Grader) Grade(ctx context.Context, q Question, answer string) Judgment {
	if isNoAnswer(answer) {
		return Judgment{
			IsCorrect:            false,
			Score:                0,
			Feedback:             "No valid answer provided.",
			Explanation:          "Please attempt to write a SQL query.",
			WeakConcepts:         []string{},
			MissingConcepts:      []string{},
			ConceptUnderstanding: map[string]float64{},
		}
	}

	j, err := g.grade(ctx, q, answer)
	if err != nil {
		g.log.Warn("grading failed, returning zero judgment", "error", err)
		return Judgment{
			IsCorrect:            false,
			Score:                0,
			Feedback:             "Unable to grade automatically.",
			Explanation:          err.Error(),
			WeakConcepts:         []string{},
			MissingConcepts:      []string{},
			ConceptUnderstanding: map[string]float64{},
		}
	}
	return j
}

// grade performs the LLM call and normalizes the raw response.
func (g *Grader) grade(ctx context.Context, q Question, answer string) (Judgment, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingUserMessage(q, answer)},
		},
		Schema:      JudgmentSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return Judgment{}, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw rawJudgment
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Judgment{}, fmt.Errorf("failed to parse grading response: %w", err)
	}

	return normalize(raw), nil
}

// conceptGrade is one entry of the per-concept understanding list.
type conceptGrade struct {
	Concept       string  `json:"concept"`
	Understanding float64 `json:"understanding"`
}

// rawJudgment is the LLM wire shape. Pointer fields distinguish absent
// values from explicit zeroes so defaults apply only when truly missing.
type rawJudgment struct {
	IsCorrect            *bool          `json:"is_correct"`
	Score                *float64       `json:"score"`
	Feedback             string         `json:"feedback"`
	Explanation          string         `json:"explanation"`
	WeakConcepts         []string       `json:"weak_concepts"`
	MissingConcepts      []string       `json:"missing_concepts"`
	ConceptUnderstanding []conceptGrade `json:"concept_understanding"`
}

// normalize fills documented defaults for absent fields and clamps ranges.
func normalize(raw rawJudgment) Judgment {
	j := Judgment{
		Feedback:    raw.Feedback,
		Explanation: raw.Explanation,
	}

	if raw.IsCorrect != nil {
		j.IsCorrect = *raw.IsCorrect
	}

	switch {
	case raw.Score != nil:
		j.Score = clampScore(int(math.Round(*raw.Score)))
	case j.IsCorrect:
		j.Score = 50
	default:
		j.Score = 0
	}

	if j.Feedback == "" {
		j.Feedback = "No feedback provided."
	}
	if j.Explanation == "" {
		j.Explanation = "No explanation provided."
	}

	j.WeakConcepts = raw.WeakConcepts
	if j.WeakConcepts == nil {
		j.WeakConcepts = []string{}
	}
	j.MissingConcepts = raw.MissingConcepts
	if j.MissingConcepts == nil {
		j.MissingConcepts = []string{}
	}

	j.ConceptUnderstanding = make(map[string]float64, len(raw.ConceptUnderstanding))
	for _, cg := range raw.ConceptUnderstanding {
		if cg.Concept == "" {
			continue
		}
		j.ConceptUnderstanding[cg.Concept] = clampUnit(cg.Understanding)
	}

	return j
}

func isNoAnswer(answer string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(answer))
	if trimmed == "" {
		return true
	}
	_, ok := noAnswerPhrases[trimmed]
	return ok
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
