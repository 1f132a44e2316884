package config

import (
	"fmt"
	"time"
)

// LLMConfig configures the language model used for insight generation and translation.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`    // Provider type: "openai", "gemini"
	Model       string        `mapstructure:"model"`       // Model name/ID
	APIKey      string        `mapstructure:"api_key"`     // Empty disables every remote path
	BaseURL     string        `mapstructure:"base_url"`    // Base URL for OpenAI-compatible APIs
	Timeout     time.Duration `mapstructure:"timeout"`     // Per-call timeout
	Temperature float32       `mapstructure:"temperature"` // Overrides every call's temperature when > 0
}

// Validate checks that the provider is known.
// The API key is optional: without it the service runs on rule-based insights.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("llm: unknown provider %q (valid: openai, gemini)", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm: timeout must not be negative")
	}
	return nil
}

// ModelOrDefault returns the configured model or the provider's default.
func (c *LLMConfig) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == "gemini" {
		return "gemini-2.5-flash-lite"
	}
	return "gpt-3.5-turbo"
}
