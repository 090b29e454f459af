package provider

import (
	"context"
	"strings"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient serves models hosted on any OpenAI-compatible chat completion
// endpoint. The model is chosen per request, so a single client covers every
// model the endpoint offers.
type OpenAIClient struct {
	client *openai.Client
	apiKey string
}

// OpenAIConfig holds configuration for the generic client.
type OpenAIConfig struct {
	APIKey  string // API key for the endpoint
	BaseURL string // Endpoint base URL (default: https://api.openai.com/v1)
}

// NewOpenAIClient creates a new generic client. A missing API key is not an
// error here; it surfaces as a ConfigError on first use.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		apiKey: cfg.APIKey,
	}
}

// Complete sends the prompt pair as system and user messages and returns the
// model's reply with surrounding whitespace trimmed.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &ppttranslator.ConfigError{Message: "OpenAI API key is not set"}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	})
	if err != nil {
		return "", &ppttranslator.ProviderError{
			Provider: c.Name(),
			Message:  "chat completion failed",
			Cause:    err,
		}
	}

	if len(resp.Choices) == 0 {
		return "", &ppttranslator.ProviderError{
			Provider: c.Name(),
			Message:  "empty response",
		}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ping verifies the endpoint is reachable with the configured key by listing
// available models. Configuration validation uses it as a connectivity probe.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if c.apiKey == "" {
		return &ppttranslator.ConfigError{Message: "OpenAI API key is not set"}
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return &ppttranslator.ProviderError{
			Provider: c.Name(),
			Message:  "endpoint check failed",
			Cause:    err,
		}
	}
	return nil
}

// Name identifies the back-end in errors and logs.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Verify OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)
