// Package pace classifies how a learner is moving through the material
// based on their answers. The classification is purely informational: it
// shows up in the status block and the progress snapshot but never feeds
// question selection.
package pace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/logging"
)

// Learning-pace categories.
const (
	CategorySlow   = "slow"
	CategoryMedium = "medium"
	CategoryFast   = "fast"
)

// Classification is one pace verdict for one answer.
type Classification struct {
	Category  string
	Reasoning string
}

// Profile is the running pace picture for a learner. It always holds the
// most recent non-empty classification.
type Profile struct {
	Category  string
	Reasoning string
}

// NewProfile returns the starting profile for a fresh session.
func NewProfile() Profile {
	return Profile{
		Category:  CategoryMedium,
		Reasoning: "Initial assessment pending",
	}
}

// Update folds a classification into the profile. Empty fields keep the
// previous value.
func (p *Profile) Update(c Classification) {
	if c.Category != "" {
		p.Category = c.Category
	}
	if c.Reasoning != "" {
		p.Reasoning = c.Reasoning
	}
}

// Config holds configuration for the pace classifier.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults. Classification is a short
// one-shot call, so the token ceiling is low.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.3,
	}
}

// Classifier classifies answers via the LLM.
type Classifier struct {
	provider llm.Provider
	cfg      Config
	log      *slog.Logger
}

// NewClassifier creates an LLM-based pace classifier.
func NewClassifier(provider llm.Provider, cfg Config) *Classifier {
	return &Classifier{provider: provider, cfg: cfg, log: logging.New("pace")}
}

const paceSystemPrompt = `You classify a student's learning pace from a single answer to a SQL practice question. Judge how confidently and completely the answer engages the question, not just whether it is correct.`

func buildPaceUserMessage(question, answer string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Question:\n%s\n", question))
	b.WriteString(fmt.Sprintf("\nStudent's answer:\n%s\n", answer))
	b.WriteString(`
Classify the student's pace:
- "slow": struggling, needs more help
- "medium": progressing normally
- "fast": advanced, excelling

Give 1-2 sentences of reasoning for the classification.`)

	return b.String()
}

// Classify returns a pace classification for one answer. It never returns
// an error: provider failures and unparseable responses degrade to a
// medium classification with a fixed reasoning string.
func (c *Classifier) Classify(ctx context.Context, question, answer string) Classification {
	ctx = llm.WithPurpose(ctx, llm.PurposePace)

	req := llm.Request{
		System: paceSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPaceUserMessage(question, answer)},
		},
		Schema:      ClassificationSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.log.Warn("pace classification failed", "error", err)
		return Classification{Category: CategoryMedium, Reasoning: "Error during classification"}
	}

	var raw struct {
		Category  string `json:"category"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		c.log.Warn("unparseable pace classification", "error", err)
		return Classification{Category: CategoryMedium, Reasoning: "Unable to analyze response"}
	}

	return Classification{Category: raw.Category, Reasoning: raw.Reasoning}
}
