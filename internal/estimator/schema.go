package estimator

import "github.com/abhisek/sqlcoach/internal/llm"

// EstimateSchema defines the JSON schema for mastery assessment responses.
var EstimateSchema = &llm.Schema{
	Name:        "mastery-estimate",
	Description: "Mastery probability assessment for one subtopic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mastery_probability": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Probability that the learner has mastered this subtopic, 0.0-1.0",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "2-3 sentences on the learner's trajectory and what to practice next",
			},
			"confidence_level": map[string]any{
				"type":        "string",
				"enum":        []any{"low", "medium", "high"},
				"description": "How much evidence backs this estimate",
			},
			"mastery_achieved": map[string]any{
				"type":        "boolean",
				"description": "Whether the learner appears to have mastered the subtopic",
			},
		},
		"required": []any{
			"mastery_probability", "feedback", "confidence_level", "mastery_achieved",
		},
		"additionalProperties": false,
	},
}
