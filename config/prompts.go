package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
)

// LoadPrompts reads prompt templates from a YAML file with "system" and
// "user" keys. A missing field falls back to the built-in default. The user
// template must keep the {{text}} variable; without it every unit would
// produce the same prompt.
func LoadPrompts(path string) (ppttranslator.Prompts, error) {
	defaults := ppttranslator.DefaultPrompts()

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("reading prompts file: %w", err)
	}

	var prompts ppttranslator.Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return defaults, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}

	if prompts.System == "" {
		prompts.System = defaults.System
	}
	if prompts.User == "" {
		prompts.User = defaults.User
	}
	if !strings.Contains(prompts.User, "{{text}}") {
		return defaults, fmt.Errorf("prompts file %s: user template must contain {{text}}", path)
	}

	return prompts, nil
}
