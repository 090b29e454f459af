package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
)

// DefaultDedicatedEndpoint is the inference endpoint used when none is
// configured.
const DefaultDedicatedEndpoint = "https://inference.generativeai.us-chicago-1.oci.oraclecloud.com"

// chatPath is the versioned chat action on the inference endpoint.
const chatPath = "/20231130/actions/chat"

const (
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 240 * time.Second
)

// Generation parameters for the dedicated chat API. Slide units are short,
// so the token budget stays small.
const (
	dedicatedMaxTokens   = 600
	dedicatedTemperature = 1.0
	dedicatedTopP        = 1.0
)

// DedicatedClient serves models hosted on a sovereign-cloud generative AI
// inference endpoint. The endpoint speaks a vendor-specific chat protocol
// over REST with bearer authentication; requests name the tenancy
// compartment the models run in.
type DedicatedClient struct {
	endpoint      string
	apiKey        string
	compartmentID string
	httpClient    *http.Client
}

// DedicatedConfig holds configuration for the dedicated client.
type DedicatedConfig struct {
	Endpoint       string        // Inference endpoint (default: DefaultDedicatedEndpoint)
	APIKey         string        // Bearer token
	CompartmentID  string        // Tenancy compartment hosting the models
	ConnectTimeout time.Duration // Dial timeout (default: 10s)
	ReadTimeout    time.Duration // Whole-request timeout (default: 240s)
}

// NewDedicatedClient creates a new dedicated client. Missing credentials are
// not an error here; they surface as a ConfigError on first use.
func NewDedicatedClient(cfg DedicatedConfig) *DedicatedClient {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultDedicatedEndpoint
	}

	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = defaultConnectTimeout
	}
	read := cfg.ReadTimeout
	if read <= 0 {
		read = defaultReadTimeout
	}

	return &DedicatedClient{
		endpoint:      endpoint,
		apiKey:        cfg.APIKey,
		compartmentID: cfg.CompartmentID,
		httpClient: &http.Client{
			Timeout: read,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: connect}).DialContext,
				TLSHandshakeTimeout: connect,
			},
		},
	}
}

type chatMessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatMessage struct {
	Role    string               `json:"role"`
	Content []chatMessageContent `json:"content"`
}

type genericChatRequest struct {
	APIFormat        string        `json:"apiFormat"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"maxTokens"`
	Temperature      float64       `json:"temperature"`
	FrequencyPenalty float64       `json:"frequencyPenalty"`
	PresencePenalty  float64       `json:"presencePenalty"`
	TopP             float64       `json:"topP"`
	TopK             int           `json:"topK"`
}

type servingMode struct {
	ServingType string `json:"servingType"`
	ModelID     string `json:"modelId"`
}

type chatEnvelope struct {
	CompartmentID string             `json:"compartmentId"`
	ServingMode   servingMode        `json:"servingMode"`
	ChatRequest   genericChatRequest `json:"chatRequest"`
}

type chatResult struct {
	ChatResponse struct {
		Choices []struct {
			Message struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"chatResponse"`
}

// Complete sends the prompt pair to the chat action and returns the model's
// reply. The protocol takes a single user turn, so the system prompt is
// prepended to the user prompt.
func (c *DedicatedClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &ppttranslator.ConfigError{Message: "dedicated endpoint API key is not set"}
	}
	if c.compartmentID == "" {
		return "", &ppttranslator.ConfigError{Message: "compartment ID is not set"}
	}

	envelope := chatEnvelope{
		CompartmentID: c.compartmentID,
		ServingMode: servingMode{
			ServingType: "ON_DEMAND",
			ModelID:     req.Model,
		},
		ChatRequest: genericChatRequest{
			APIFormat: "GENERIC",
			Messages: []chatMessage{{
				Role: "USER",
				Content: []chatMessageContent{{
					Type: "TEXT",
					Text: req.SystemPrompt + "\n\n" + req.UserPrompt,
				}},
			}},
			MaxTokens:   dedicatedMaxTokens,
			Temperature: dedicatedTemperature,
			TopP:        dedicatedTopP,
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "encoding request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "building request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("User-Agent", ppttranslator.UserAgent())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "chat request failed", Cause: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "reading response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ppttranslator.ProviderError{
			Provider: c.Name(),
			Message:  fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, summarize(payload)),
		}
	}

	var result chatResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "decoding response", Cause: err}
	}

	choices := result.ChatResponse.Choices
	if len(choices) == 0 || len(choices[0].Message.Content) == 0 {
		return "", &ppttranslator.ProviderError{Provider: c.Name(), Message: "empty response"}
	}

	return strings.TrimSpace(choices[0].Message.Content[0].Text), nil
}

// Name identifies the back-end in errors and logs.
func (c *DedicatedClient) Name() string {
	return "dedicated"
}

// summarize flattens an error payload to a single log-friendly line.
func summarize(payload []byte) string {
	s := strings.TrimSpace(string(payload))
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// Verify DedicatedClient implements Client
var _ Client = (*DedicatedClient)(nil)
