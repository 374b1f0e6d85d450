// Package estimator asks the LLM for a mastery probability estimate after
// each graded attempt. Estimation is advisory and must never take the
// session down: every failure path degrades to a deterministic fallback
// computed from raw attempt accuracy.
package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/mastery"
)

// Config holds configuration for the mastery estimator.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.3,
	}
}

// Fixed feedback for the degraded paths.
const (
	feedbackNoAttempts  = "No attempts recorded yet. Begin with foundational concepts."
	feedbackContextErr  = "Error preparing assessment context. Using basic calculation. Continue practicing."
	feedbackUnavailable = "System assessment temporarily unavailable. Continue practicing."
)

// Estimator produces mastery estimates via the LLM.
type Estimator struct {
	provider llm.Provider
	cfg      Config
	log      *slog.Logger
}

// NewEstimator creates an LLM-based mastery estimator.
func NewEstimator(provider llm.Provider, cfg Config) *Estimator {
	return &Estimator{provider: provider, cfg: cfg, log: logging.New("estimator")}
}

// Assess builds the assessment context from the ledger state and asks the
// LLM for a mastery estimate. It never returns an error: with no attempts
// it returns a fixed zero estimate without calling out, and any context or
// provider failure degrades to the accuracy-based fallback. The session
// always gets an estimate it can fold into the ledger.
func (e *Estimator) Assess(ctx context.Context, graph *curriculum.Graph, state *mastery.SubtopicState) Estimate {
	if state.TotalAttempts == 0 {
		return Estimate{
			MasteryProbability: 0,
			Feedback:           feedbackNoAttempts,
			Confidence:         "low",
		}
	}

	in, err := BuildInput(graph, state)
	if err != nil {
		e.log.Warn("failed to build assessment context", "subtopic", state.SubtopicID, "error", err)
		est := Fallback(state.CorrectAttempts, state.TotalAttempts)
		est.Feedback = feedbackContextErr
		return est
	}

	est, err := e.Estimate(ctx, in)
	if err != nil {
		e.log.Warn("mastery estimation failed, using fallback", "subtopic", state.SubtopicID, "error", err)
		est := Fallback(state.CorrectAttempts, state.TotalAttempts)
		est.Feedback = feedbackUnavailable
		return est
	}
	return est
}

// Estimate performs one LLM assessment call against a prepared Input.
func (e *Estimator) Estimate(ctx context.Context, in Input) (Estimate, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEstimate)

	req := llm.Request{
		System: assessmentSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAssessmentUserMessage(in)},
		},
		Schema:      EstimateSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return Estimate{}, fmt.Errorf("LLM assessment failed: %w", err)
	}

	var raw rawEstimate
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Estimate{}, fmt.Errorf("failed to parse assessment response: %w", err)
	}
	if raw.MasteryProbability == nil {
		return Estimate{}, fmt.Errorf("assessment response missing mastery_probability")
	}

	est := Estimate{
		MasteryProbability: clampUnit(*raw.MasteryProbability),
		Feedback:           raw.Feedback,
		Confidence:         raw.Confidence,
		MasteryAchieved:    raw.MasteryAchieved,
	}
	if est.Confidence == "" {
		est.Confidence = "medium"
	}
	return est, nil
}

// Fallback is the deterministic estimate used when assessment cannot run:
// raw accuracy scaled by 0.8, so a degraded estimate never reads as full
// mastery on its own.
func Fallback(correct, total int) Estimate {
	if total < 1 {
		total = 1
	}
	return Estimate{
		MasteryProbability: float64(correct) / float64(total) * 0.8,
		Confidence:         "low",
	}
}

// rawEstimate is the LLM wire shape. The probability is a pointer so a
// missing field reads as a failed assessment rather than a confident zero.
type rawEstimate struct {
	MasteryProbability *float64 `json:"mastery_probability"`
	Feedback           string   `json:"feedback"`
	Confidence         string   `json:"confidence_level"`
	MasteryAchieved    bool     `json:"mastery_achieved"`
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
