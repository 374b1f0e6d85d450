package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("prefixed model IDs pass through", func(t *testing.T) {
		for _, model := range []string{
			"google/gemini-2.5-flash",
			"anthropic/claude-3-haiku",
			"meta-llama/llama-3-8b",
		} {
			p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: model})
			if err != nil {
				t.Fatalf("NewOpenRouterProvider(%q): %v", model, err)
			}
			if p.ModelID() != model {
				t.Errorf("ModelID() = %q, want %q", p.ModelID(), model)
			}
		}
	})
}

// TestOpenRouterProvider_SpeaksOpenAIWireFormat drives a request through the
// embedded OpenAI client against a stub OpenRouter endpoint.
func TestOpenRouterProvider_SpeaksOpenAIWireFormat(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openaiCompletionBody(`{"ok":true}`, "stop"))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.5-flash",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 32,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("content = %s", resp.Content)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("request path = %q, want the OpenAI chat completions route", gotPath)
	}
}
