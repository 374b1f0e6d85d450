package pace

import "github.com/abhisek/sqlcoach/internal/llm"

// ClassificationSchema defines the JSON schema for pace classification
// responses.
var ClassificationSchema = &llm.Schema{
	Name:        "pace-classification",
	Description: "Learning-pace classification for one answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type":        "string",
				"enum":        []any{"slow", "medium", "fast"},
				"description": "slow (struggling, needs more help), medium (progressing normally), fast (advanced, excelling)",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "1-2 sentence explanation for the classification",
			},
		},
		"required":             []any{"category", "reasoning"},
		"additionalProperties": false,
	},
}
