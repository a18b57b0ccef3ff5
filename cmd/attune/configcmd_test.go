package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/attune-dev/attune/internal/config"
)

func TestRenderConfig_Loadable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answers initAnswers
	}{
		{
			name: "minimal memory",
			answers: initAnswers{
				Bind:           "127.0.0.1:8080",
				HistoryBackend: "memory",
			},
		},
		{
			name: "sqlite with auth",
			answers: initAnswers{
				Bind:           "0.0.0.0:9090",
				BearerToken:    "secret",
				HistoryBackend: "sqlite",
				SQLitePath:     "data/attune.db",
			},
		},
		{
			name: "openai provider",
			answers: initAnswers{
				Bind:            "127.0.0.1:8080",
				HistoryBackend:  "memory",
				ProviderBackend: "openai",
				APIKey:          "sk-test",
				Model:           "gpt-4.1-mini",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "attune.yaml")
			if err := os.WriteFile(path, []byte(renderConfig(tt.answers)), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}

			cfg, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := config.Validate(cfg); err != nil {
				t.Fatalf("Validate: %v", err)
			}

			if cfg.Gateway.Bind != tt.answers.Bind {
				t.Errorf("bind = %q, want %q", cfg.Gateway.Bind, tt.answers.Bind)
			}
			if cfg.History.Backend != tt.answers.HistoryBackend {
				t.Errorf("history backend = %q, want %q", cfg.History.Backend, tt.answers.HistoryBackend)
			}
			if cfg.Provider.Backend != tt.answers.ProviderBackend {
				t.Errorf("provider backend = %q, want %q", cfg.Provider.Backend, tt.answers.ProviderBackend)
			}
		})
	}
}
