package openai

import (
	"fmt"
	"time"
)

// Config holds the configuration for the OpenAI backend.
type Config struct {
	APIKey          string        `yaml:"api_key"`
	Model           string        `yaml:"model"`
	MaxOutputTokens int64         `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "gpt-4.1-mini"
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 2048
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// validate returns an error if required fields are missing.
func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("provider.openai: api_key is required")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("provider.openai: max_output_tokens must not be negative")
	}
	return nil
}
