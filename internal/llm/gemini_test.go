package llm

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestResolveModel_Gemini(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, geminiModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback":   map[string]any{"type": "string"},
			"score":      map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"mastery":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			"concepts_used": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"feedback", "score"},
	}

	schema := toGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("properties = %d, want 5", len(schema.Properties))
	}

	score := schema.Properties["score"]
	if score.Type != "INTEGER" {
		t.Errorf("score type = %s, want INTEGER", score.Type)
	}
	if score.Minimum == nil || *score.Minimum != 0 {
		t.Errorf("score minimum = %v, want 0", score.Minimum)
	}
	if score.Maximum == nil || *score.Maximum != 100 {
		t.Errorf("score maximum = %v, want 100", score.Maximum)
	}

	mastery := schema.Properties["mastery"]
	if mastery.Type != "NUMBER" {
		t.Errorf("mastery type = %s, want NUMBER", mastery.Type)
	}
	if mastery.Maximum == nil || *mastery.Maximum != 1.0 {
		t.Errorf("mastery maximum = %v, want 1.0", mastery.Maximum)
	}

	if got := len(schema.Properties["difficulty"].Enum); got != 3 {
		t.Errorf("difficulty enum = %d values, want 3", got)
	}
	concepts := schema.Properties["concepts_used"]
	if concepts.Type != "ARRAY" || concepts.Items.Type != "STRING" {
		t.Errorf("concepts_used = %s of %v, want ARRAY of STRING", concepts.Type, concepts.Items)
	}
	if len(schema.Required) != 2 {
		t.Errorf("required = %d fields, want 2", len(schema.Required))
	}
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		code int
		want any
	}{
		{401, new(*ErrAuth)},
		{403, new(*ErrAuth)},
		{429, new(*ErrRateLimit)},
		{500, new(*ErrProviderUnavailable)},
		{503, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		err := mapGeminiError(&genai.APIError{Code: tt.code, Message: "stub"})
		if !errors.As(err, tt.want) {
			t.Errorf("code %d mapped to %T, want %T", tt.code, err, tt.want)
		}
	}

	// Errors outside the API error shape degrade to unavailable.
	var unavail *ErrProviderUnavailable
	if !errors.As(mapGeminiError(fmt.Errorf("dial tcp: timeout")), &unavail) {
		t.Error("plain errors should map to ErrProviderUnavailable")
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	if got := mapGeminiStopReason("MAX_TOKENS"); got != "max_tokens" {
		t.Errorf("MAX_TOKENS mapped to %q", got)
	}
	if got := mapGeminiStopReason("STOP"); got != "end" {
		t.Errorf("STOP mapped to %q", got)
	}
}
