package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
)

func writePrompts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing prompts file: %v", err)
	}
	return path
}

func TestLoadPrompts(t *testing.T) {
	path := writePrompts(t, `
system: You translate slides.
user: |
  Into {{target}}: {{text}}
`)

	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}

	if prompts.System != "You translate slides." {
		t.Errorf("unexpected system prompt %q", prompts.System)
	}

	user := prompts.BuildUser("Japanese", "Hello")
	if !strings.Contains(user, "Into Japanese: Hello") {
		t.Errorf("unexpected rendered prompt %q", user)
	}
}

func TestLoadPrompts_PartialFallsBack(t *testing.T) {
	path := writePrompts(t, `user: "Translate to {{target}}. Text: {{text}}"`)

	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts failed: %v", err)
	}

	if prompts.System != ppttranslator.DefaultPrompts().System {
		t.Errorf("missing system prompt should fall back to default, got %q", prompts.System)
	}
	if !strings.Contains(prompts.User, "{{text}}") {
		t.Errorf("user template lost the text variable: %q", prompts.User)
	}
}

func TestLoadPrompts_MissingTextVariable(t *testing.T) {
	path := writePrompts(t, `user: "Translate everything to {{target}}."`)

	_, err := LoadPrompts(path)
	if err == nil {
		t.Fatal("expected error for user template without {{text}}")
	}
	if !strings.Contains(err.Error(), "{{text}}") {
		t.Errorf("error should mention the missing variable, got %v", err)
	}
}

func TestLoadPrompts_MissingFile(t *testing.T) {
	prompts, err := LoadPrompts(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	// Defaults still come back so callers can degrade gracefully.
	if prompts.User != ppttranslator.DefaultPrompts().User {
		t.Error("expected default prompts alongside the error")
	}
}

func TestLoadPrompts_InvalidYAML(t *testing.T) {
	path := writePrompts(t, "system: [unclosed")

	_, err := LoadPrompts(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
