package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/attune-dev/attune/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configCheckCmd(), configInitCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Println("Configuration OK")
			return nil
		},
	}
}

// initAnswers collects the wizard inputs before rendering the YAML.
type initAnswers struct {
	Bind            string
	BearerToken     string
	HistoryBackend  string
	SQLitePath      string
	ProviderBackend string
	APIKey          string
	Model           string
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a configuration file interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "attune.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			answers := initAnswers{
				Bind:           "127.0.0.1:8080",
				HistoryBackend: "memory",
				SQLitePath:     "attune.db",
			}

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Bind address").
						Description("Host and port for the HTTP gateway").
						Value(&answers.Bind),
					huh.NewInput().
						Title("API bearer token").
						Description("Leave empty to disable authentication").
						Value(&answers.BearerToken),
				),
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("History backend").
						Options(
							huh.NewOption("In-memory (lost on restart)", "memory"),
							huh.NewOption("SQLite", "sqlite"),
						).
						Value(&answers.HistoryBackend),
					huh.NewInput().
						Title("SQLite database path").
						Value(&answers.SQLitePath),
				),
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Generation backend").
						Description("Powers chat replies and strategy elaboration").
						Options(
							huh.NewOption("None (deterministic replies only)", ""),
							huh.NewOption("OpenAI", "openai"),
							huh.NewOption("OpenAI-compatible server", "openai_compatible"),
						).
						Value(&answers.ProviderBackend),
					huh.NewInput().
						Title("API key").
						EchoMode(huh.EchoModePassword).
						Value(&answers.APIKey),
					huh.NewInput().
						Title("Model").
						Value(&answers.Model),
				),
			)

			if err := form.Run(); err != nil {
				return err
			}

			content := renderConfig(answers)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	return cmd
}

// renderConfig produces the YAML document for the collected answers.
func renderConfig(a initAnswers) string {
	var b strings.Builder

	b.WriteString("version: \"1\"\n\n")

	b.WriteString("logging:\n")
	b.WriteString("  level: info\n")
	b.WriteString("  format: text\n\n")

	b.WriteString("gateway:\n")
	fmt.Fprintf(&b, "  bind: %q\n", a.Bind)
	if a.BearerToken != "" {
		b.WriteString("  auth:\n")
		fmt.Fprintf(&b, "    bearer_token: %q\n", a.BearerToken)
	}
	b.WriteString("\n")

	b.WriteString("history:\n")
	fmt.Fprintf(&b, "  backend: %s\n", a.HistoryBackend)
	if a.HistoryBackend == "sqlite" {
		fmt.Fprintf(&b, "  path: %q\n", a.SQLitePath)
	}
	b.WriteString("\n")

	if a.ProviderBackend != "" {
		b.WriteString("provider:\n")
		fmt.Fprintf(&b, "  backend: %s\n", a.ProviderBackend)
		b.WriteString("  settings:\n")
		fmt.Fprintf(&b, "    api_key: %q\n", a.APIKey)
		if a.Model != "" {
			fmt.Fprintf(&b, "    model: %q\n", a.Model)
		}
		b.WriteString("\ncbt:\n")
		b.WriteString("  elaborate: true\n")
	}

	return b.String()
}
