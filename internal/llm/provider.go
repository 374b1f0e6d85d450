package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts an LLM backend. Implementations live per vendor;
// callers only see Generate.
type Provider interface {
	// Generate sends one request and returns the model's reply. When the
	// request carries a Schema, the reply Content is JSON already
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the model this provider is configured to call.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation so far. Grading and estimation are
	// single-turn, so this usually holds one user message.
	Messages []Message

	// Schema, when set, makes the provider use its native structured
	// output mechanism and validates the reply against the definition.
	// When nil the reply is returned as raw text.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls sampling randomness, 0.0 to 1.0. The zero
	// value asks for deterministic output.
	Temperature float64
}

// Message is one turn of conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the reply must conform to.
type Schema struct {
	// Name identifies the schema to the provider (OpenAI requires one
	// for its json_schema response format). Kebab-case, e.g. "sql-grade".
	Name string

	// Description tells the model what the structure represents.
	Description string

	// Definition is the JSON Schema itself as a map.
	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content holds the generated output. With a Schema in the request
	// this is the validated JSON object, otherwise raw text.
	Content json.RawMessage

	// Usage reports token consumption for this call.
	Usage Usage

	// Model is the model that actually served the call, as reported by
	// the provider.
	Model string

	// StopReason is normalized across providers: "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
