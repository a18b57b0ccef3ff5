package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// varExpr matches ${NAME} and ${NAME:-fallback} placeholders in raw YAML.
var varExpr = regexp.MustCompile(`\$\{([A-Za-z_]\w*)(:-[^}]*)?\}`)

// Load parses the YAML file at path into a Config, substituting environment
// placeholders first. A placeholder with neither an environment value nor a
// ":-" fallback is an error; every unresolved name is reported together.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var missing []string
	expanded := varExpr.ReplaceAllFunc(raw, func(match []byte) []byte {
		groups := varExpr.FindSubmatch(match)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if fallback := groups[2]; len(fallback) > 0 {
			return fallback[len(":-"):]
		}

		missing = append(missing, name)
		return match
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: %s: unresolved variable: %s", path, strings.Join(missing, ", unresolved variable: "))
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}
