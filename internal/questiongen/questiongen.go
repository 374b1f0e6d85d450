// Package questiongen turns a selected bank problem into a concrete
// practice question via the LLM. Generation is best-effort: the bank
// description stays the source of truth for grading context, and any
// failure serves it unchanged.
package questiongen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/logging"
)

// Config holds configuration for question generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults. Temperature runs high so
// repeated visits to a cluster produce varied questions.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.7,
	}
}

// Input is the material a question is generated from.
type Input struct {
	Info    curriculum.ClusterInfo
	Problem bank.Problem
}

// Generator produces question text. A nil provider disables generation
// entirely and every call serves the fallback text.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *slog.Logger
}

// NewGenerator creates a question generator. Pass a nil provider to run
// in fallback-only mode.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg, log: logging.New("questiongen")}
}

// Generate returns the question text to serve for a problem. With no
// provider, or on any generation failure, it returns the bank description,
// or a one-line objective prompt when the description is empty.
func (g *Generator) Generate(ctx context.Context, in Input) string {
	if g.provider == nil {
		return fallbackText(in)
	}

	text, err := g.generate(ctx, in)
	if err != nil {
		g.log.Warn("question generation failed, serving bank text", "problem", in.Problem.ID, "error", err)
		return fallbackText(in)
	}
	return text
}

func (g *Generator) generate(ctx context.Context, in Input) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGenerationPrompt(in)},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM question generation failed: %w", err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return text, nil
}

func buildGenerationPrompt(in Input) string {
	c := in.Info.Cluster
	var b strings.Builder

	b.WriteString("Based on the following learning objective, generate a SQL question:\n\n")
	b.WriteString(fmt.Sprintf("Topic: %s\n", in.Info.TopicName))
	b.WriteString(fmt.Sprintf("Subtopic: %s\n", in.Info.SubtopicName))
	b.WriteString(fmt.Sprintf("Cluster: %s\n", c.Name))
	b.WriteString(fmt.Sprintf("Complexity Level: %d/5\n", c.Complexity))

	if c.LearningObjective != "" {
		b.WriteString(fmt.Sprintf("\nLearning Objective: %s\n", c.LearningObjective))
	}
	if c.Description != "" {
		b.WriteString(fmt.Sprintf("\nDescription: %s\n", c.Description))
	}
	if len(c.SkillsTested) > 0 {
		b.WriteString(fmt.Sprintf("\nSkills to test: %s\n", strings.Join(c.SkillsTested, ", ")))
	}
	if in.Problem.Description != "" {
		b.WriteString(fmt.Sprintf("\nBase problem to rework:\n%s\n", in.Problem.Description))
	}

	b.WriteString("\nGenerate a clear, practical SQL question that tests these skills. Make it concrete with example table names. Return only the question text.")

	return b.String()
}

func fallbackText(in Input) string {
	if in.Problem.Description != "" {
		return in.Problem.Description
	}
	return "Write a SQL query to demonstrate: " + in.Info.Cluster.LearningObjective
}
