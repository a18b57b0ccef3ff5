// Package ctxengine implements conversation context management: message
// windowing, token budgeting, strategic truncation, and summarization.
package ctxengine

// ContextConfig holds the tuning knobs for the context engine.
type ContextConfig struct {
	// MaxMessages caps the context window; older messages beyond the cap
	// are dropped, except the session's first message.
	MaxMessages int `yaml:"max_messages"`

	// RetainRecent is the number of most-recent messages kept verbatim when
	// the history is summarized.
	RetainRecent int `yaml:"retain_recent"`

	// MaxTokens is the model's usable token limit.
	MaxTokens int `yaml:"max_tokens"`

	// SafetyMargin is the fraction of MaxTokens held back from the budget.
	SafetyMargin float64 `yaml:"safety_margin"`

	// MinContentChars is the shortest a message may be shrunk to during
	// truncation; below this the message is dropped instead.
	MinContentChars int `yaml:"min_content_chars"`
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// sensible defaults.
func (cfg ContextConfig) withDefaults() ContextConfig {
	if cfg.MaxMessages == 0 {
		cfg.MaxMessages = 20
	}
	if cfg.RetainRecent == 0 {
		cfg.RetainRecent = 10
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 800000
	}
	if cfg.SafetyMargin == 0 {
		cfg.SafetyMargin = 0.1
	}
	if cfg.MinContentChars == 0 {
		cfg.MinContentChars = 50
	}
	return cfg
}
