package grading

import "github.com/abhisek/sqlcoach/internal/llm"

// JudgmentSchema defines the JSON schema for LLM grading responses.
var JudgmentSchema = &llm.Schema{
	Name:        "sql-grade",
	Description: "Structured grading judgment for a learner's SQL answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is functionally correct SQL for the question asked",
			},
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Quality score from 0 (no understanding) to 100 (perfect)",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-3 sentences of direct feedback on the answer",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Short explanation of the correct approach",
			},
			"weak_concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Tested concepts the answer shows weakness in",
			},
			"missing_concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concepts required by the question but absent from the answer",
			},
			"concept_understanding": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"concept": map[string]any{
							"type":        "string",
							"description": "Name of a tested concept",
						},
						"understanding": map[string]any{
							"type":        "number",
							"minimum":     0.0,
							"maximum":     1.0,
							"description": "Demonstrated understanding of the concept, 0.0-1.0",
						},
					},
					"required":             []any{"concept", "understanding"},
					"additionalProperties": false,
				},
				"description": "Per-concept understanding demonstrated by this answer",
			},
		},
		"required": []any{
			"is_correct", "score", "feedback", "explanation",
			"weak_concepts", "missing_concepts", "concept_understanding",
		},
		"additionalProperties": false,
	},
}
