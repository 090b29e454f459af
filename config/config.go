// Package config loads runtime configuration from the environment, with a
// best-effort .env merge for local development.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
)

// Environment variable names.
const (
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "OPENAI_BASE_URL"
	EnvOpenAIModel    = "OPENAI_MODEL_NAME"
	EnvCompartmentID  = "COMPARTMENT_ID"
	EnvGenAIEndpoint  = "GENAI_ENDPOINT"
	EnvGenAIAPIKey    = "GENAI_API_KEY"
	EnvTargetLanguage = "DEFAULT_TARGET_LANGUAGE"
	EnvOutputDir      = "OUTPUT_DIRECTORY"
	EnvRedisURL       = "REDIS_URL"
	EnvCacheTTL       = "CACHE_TTL_SECONDS"
	EnvRequestsPerMin = "REQUESTS_PER_MINUTE"
	EnvPromptsFile    = "PROMPTS_FILE"
)

// Defaults.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultModel         = "gpt-4o"
	DefaultCacheTTL      = 3600
)

// Config holds everything the CLI and the job server need to build a
// pipeline: provider credentials, defaults for language and model, and
// optional cache and pacing settings.
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	CompartmentID string
	GenAIEndpoint string
	GenAIAPIKey   string

	DefaultTargetLanguage string
	OutputDirectory       string

	RedisURL          string
	CacheTTLSeconds   int
	RequestsPerMinute int

	PromptsFile string
}

// Load reads configuration from the environment, first merging a .env file
// from the working directory when one exists. Variables already set in the
// environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		OpenAIAPIKey:          os.Getenv(EnvOpenAIAPIKey),
		OpenAIBaseURL:         getenv(EnvOpenAIBaseURL, DefaultOpenAIBaseURL),
		OpenAIModel:           getenv(EnvOpenAIModel, DefaultModel),
		CompartmentID:         os.Getenv(EnvCompartmentID),
		GenAIEndpoint:         os.Getenv(EnvGenAIEndpoint),
		GenAIAPIKey:           os.Getenv(EnvGenAIAPIKey),
		DefaultTargetLanguage: getenv(EnvTargetLanguage, ppttranslator.DefaultTargetLanguage),
		OutputDirectory:       os.Getenv(EnvOutputDir),
		RedisURL:              os.Getenv(EnvRedisURL),
		PromptsFile:           os.Getenv(EnvPromptsFile),
	}

	var err error
	if cfg.CacheTTLSeconds, err = getenvInt(EnvCacheTTL, DefaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute, err = getenvInt(EnvRequestsPerMin, 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Problems returns human-readable configuration findings. An empty slice
// means the static configuration looks usable; connectivity is checked
// separately against the live endpoints.
func (c *Config) Problems() []string {
	var problems []string

	if c.OpenAIAPIKey == "" && c.GenAIAPIKey == "" {
		problems = append(problems, "no provider credentials: set "+EnvOpenAIAPIKey+" or "+EnvGenAIAPIKey)
	}
	if c.GenAIAPIKey != "" && c.CompartmentID == "" {
		problems = append(problems, EnvGenAIAPIKey+" is set but "+EnvCompartmentID+" is missing; dedicated models will fail")
	}
	if c.RequestsPerMinute < 0 {
		problems = append(problems, EnvRequestsPerMin+" must not be negative")
	}

	return problems
}

// Pinger probes a provider endpoint for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Validate aggregates every finding about the configuration: the static
// checks from Problems, the output directory probe, and a live endpoint
// check when generic credentials are present. All findings come back
// together so a single run surfaces everything there is to fix.
func (c *Config) Validate(ctx context.Context, probe Pinger) []string {
	problems := c.Problems()

	if err := c.CheckOutputDirectory(); err != nil {
		problems = append(problems, err.Error())
	}

	if c.OpenAIAPIKey != "" && probe != nil {
		if err := probe.Ping(ctx); err != nil {
			problems = append(problems, err.Error())
		}
	}

	return problems
}

// CheckOutputDirectory probes the configured output directory by writing and
// removing a marker file. An empty setting is fine; outputs then default to
// a directory next to each input deck.
func (c *Config) CheckOutputDirectory() error {
	if c.OutputDirectory == "" {
		return nil
	}
	if err := os.MkdirAll(c.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	probe := filepath.Join(c.OutputDirectory, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	return os.Remove(probe)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
