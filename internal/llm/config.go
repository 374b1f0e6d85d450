package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call, covering every retry
	// attempt inside it. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from SQLCOACH_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	envStr(&cfg.Provider, "SQLCOACH_LLM_PROVIDER")
	envStr(&cfg.Anthropic.APIKey, "SQLCOACH_ANTHROPIC_API_KEY")
	envStr(&cfg.Anthropic.Model, "SQLCOACH_ANTHROPIC_MODEL")
	envStr(&cfg.OpenAI.APIKey, "SQLCOACH_OPENAI_API_KEY")
	envStr(&cfg.OpenAI.Model, "SQLCOACH_OPENAI_MODEL")
	envStr(&cfg.OpenAI.BaseURL, "SQLCOACH_OPENAI_BASE_URL")
	envStr(&cfg.Gemini.APIKey, "SQLCOACH_GEMINI_API_KEY")
	envStr(&cfg.Gemini.Model, "SQLCOACH_GEMINI_MODEL")
	envStr(&cfg.OpenRouter.APIKey, "SQLCOACH_OPENROUTER_API_KEY")
	envStr(&cfg.OpenRouter.Model, "SQLCOACH_OPENROUTER_MODEL")
	envStr(&cfg.OpenRouter.BaseURL, "SQLCOACH_OPENROUTER_BASE_URL")

	if d := os.Getenv("SQLCOACH_LLM_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = parsed
		}
	}

	return cfg
}

// envStr overwrites dst when the named variable is set and non-empty.
func envStr(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes the standard API key variables and returns a
// Config for the first provider whose key is present. The probe order
// puts the cheaper-to-run providers first. Returns false when no key
// is found.
func DiscoverConfig() (Config, bool) {
	probes := []struct {
		env string
		set func(*Config, string)
	}{
		{"GEMINI_API_KEY", func(c *Config, k string) { c.Provider = "gemini"; c.Gemini.APIKey = k }},
		{"OPENAI_API_KEY", func(c *Config, k string) { c.Provider = "openai"; c.OpenAI.APIKey = k }},
		{"ANTHROPIC_API_KEY", func(c *Config, k string) { c.Provider = "anthropic"; c.Anthropic.APIKey = k }},
		{"OPENROUTER_API_KEY", func(c *Config, k string) { c.Provider = "openrouter"; c.OpenRouter.APIKey = k }},
	}

	for _, probe := range probes {
		if k := os.Getenv(probe.env); k != "" {
			cfg := DefaultConfig()
			probe.set(&cfg, k)
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic":
		key, env = c.Anthropic.APIKey, "SQLCOACH_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "SQLCOACH_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "SQLCOACH_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "SQLCOACH_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
