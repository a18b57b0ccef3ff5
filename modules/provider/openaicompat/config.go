package openaicompat

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config points the generator at an OpenAI-compatible endpoint.
type Config struct {
	BaseURL   string            `yaml:"base_url"`
	APIKey    string            `yaml:"api_key"`
	Model     string            `yaml:"model"`
	MaxTokens int               `yaml:"max_tokens"`
	Headers   map[string]string `yaml:"headers"`
	Timeout   time.Duration     `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2048
	}
	// The completions path is appended verbatim, so strip trailing slashes.
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("provider.openai_compatible: base_url is required")
	case c.APIKey == "":
		return fmt.Errorf("provider.openai_compatible: api_key is required")
	case c.Model == "":
		return fmt.Errorf("provider.openai_compatible: model is required")
	case c.MaxTokens < 0:
		return fmt.Errorf("provider.openai_compatible: max_tokens must not be negative")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("provider.openai_compatible: base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider.openai_compatible: base_url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
