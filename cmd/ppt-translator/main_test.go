package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
	"github.com/engchina/No.1-PPT-Translator/config"
	"github.com/engchina/No.1-PPT-Translator/pptx/pptxtest"
)

// clearEnv blanks every configuration variable so ambient settings cannot
// leak into CLI assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvOpenAIAPIKey, config.EnvOpenAIBaseURL, config.EnvOpenAIModel,
		config.EnvCompartmentID, config.EnvGenAIEndpoint, config.EnvGenAIAPIKey,
		config.EnvTargetLanguage, config.EnvOutputDir, config.EnvRedisURL,
		config.EnvCacheTTL, config.EnvRequestsPerMin, config.EnvPromptsFile,
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "ppt-translator") {
		t.Errorf("version output missing name: %s", out)
	}
	if !strings.Contains(out, ppttranslator.Version) {
		t.Errorf("version output missing version: %s", out)
	}
}

func TestTranslate_RequiresInput(t *testing.T) {
	if _, err := execute(t, "translate"); err == nil {
		t.Fatal("expected error for missing input path")
	}
}

func TestTranslate_DryRun(t *testing.T) {
	path := pptxtest.Write(t, t.TempDir(), "deck.pptx", pptxtest.Deck{Slides: []pptxtest.Slide{
		{
			Shapes: []pptxtest.Shape{
				{Paragraphs: [][]string{{"Hello, world"}}},
				{Paragraphs: [][]string{{"Confidential"}}, Placeholder: "ftr"},
				{Table: [][]string{{"Region", "42"}}},
			},
			Notes: "Remember the demo",
		},
	}})

	out, err := execute(t, "translate", "--dry-run", path)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	for _, want := range []string{
		"[paragraph]", "Hello, world",
		"[cell]", "Region",
		"[notes]", "Remember the demo",
		"Total: 3 translatable units",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dry run output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Confidential") {
		t.Error("footer text listed in dry run")
	}
	if strings.Contains(out, "42") {
		t.Error("numeric cell listed in dry run")
	}
}

func TestTranslate_MissingInput(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvOpenAIAPIKey, "sk-test")

	_, err := execute(t, "translate", "--quiet", filepath.Join(t.TempDir(), "missing.pptx"))
	if err == nil {
		t.Fatal("expected error for missing deck")
	}
	if !strings.Contains(err.Error(), "translation failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsMissingCredentials(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "validate")
	if err == nil {
		t.Fatal("expected error for empty configuration")
	}
	if !strings.Contains(err.Error(), "configuration problem") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildCache(t *testing.T) {
	if c := buildCache("", 0); c != nil {
		t.Errorf("TTL 0 should disable caching, got %T", c)
	}
	if c := buildCache("", 60); c == nil {
		t.Error("expected in-memory cache")
	}
	// A malformed URL fails in parsing, before any dialing.
	if c := buildCache("not-a-redis-url", 60); c == nil {
		t.Error("expected fallback to in-memory cache")
	}
}

func TestCLIObserver_StopFlag(t *testing.T) {
	obs := newCLIObserver(true)
	if obs.ShouldStop() {
		t.Fatal("fresh observer should not stop")
	}
	obs.requestStop()
	if !obs.ShouldStop() {
		t.Error("stop flag not set")
	}
}
