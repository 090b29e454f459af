package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
)

func TestDedicatedClient_Complete(t *testing.T) {
	var received chatEnvelope

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/20231130/actions/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer genai-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"chatResponse":{"choices":[{"message":{"content":[{"text":"[PLACEHOLDER_0]不具合の概要 "}]}}]}}`)
	}))
	defer server.Close()

	c := NewDedicatedClient(DedicatedConfig{
		Endpoint:      server.URL,
		APIKey:        "genai-key",
		CompartmentID: "ocid1.compartment.oc1..example",
	})

	out, err := c.Complete(context.Background(), Request{
		Model:        "xai.grok-3",
		SystemPrompt: "You are a translator.",
		UserPrompt:   "Translate: [PLACEHOLDER_0]Issue summary",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if out != "[PLACEHOLDER_0]不具合の概要" {
		t.Errorf("expected trimmed reply, got %q", out)
	}
	if received.CompartmentID != "ocid1.compartment.oc1..example" {
		t.Errorf("unexpected compartment %q", received.CompartmentID)
	}
	if received.ServingMode.ServingType != "ON_DEMAND" {
		t.Errorf("expected ON_DEMAND serving, got %q", received.ServingMode.ServingType)
	}
	if received.ServingMode.ModelID != "xai.grok-3" {
		t.Errorf("expected model xai.grok-3, got %q", received.ServingMode.ModelID)
	}
	if received.ChatRequest.APIFormat != "GENERIC" {
		t.Errorf("expected GENERIC api format, got %q", received.ChatRequest.APIFormat)
	}
	if received.ChatRequest.MaxTokens != 600 {
		t.Errorf("expected max tokens 600, got %d", received.ChatRequest.MaxTokens)
	}
	if received.ChatRequest.Temperature != 1.0 {
		t.Errorf("expected temperature 1, got %v", received.ChatRequest.Temperature)
	}
	if len(received.ChatRequest.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(received.ChatRequest.Messages))
	}

	msg := received.ChatRequest.Messages[0]
	if msg.Role != "USER" {
		t.Errorf("expected USER role, got %q", msg.Role)
	}
	if len(msg.Content) != 1 || msg.Content[0].Type != "TEXT" {
		t.Fatalf("expected single TEXT content, got %+v", msg.Content)
	}
	if !strings.HasPrefix(msg.Content[0].Text, "You are a translator.\n\n") {
		t.Errorf("system prompt should be prepended, got %q", msg.Content[0].Text)
	}
	if !strings.Contains(msg.Content[0].Text, "[PLACEHOLDER_0]Issue summary") {
		t.Errorf("user prompt missing from message: %q", msg.Content[0].Text)
	}
}

func TestDedicatedClient_Complete_MissingConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  DedicatedConfig
	}{
		{"no api key", DedicatedConfig{CompartmentID: "ocid1.compartment.oc1..example"}},
		{"no compartment", DedicatedConfig{APIKey: "genai-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDedicatedClient(tt.cfg)

			_, err := c.Complete(context.Background(), Request{Model: "xai.grok-3", UserPrompt: "hi"})
			if err == nil {
				t.Fatal("expected error for missing configuration")
			}

			var configErr *ppttranslator.ConfigError
			if !errors.As(err, &configErr) {
				t.Errorf("expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestDedicatedClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"TooManyRequests","message":"slow down"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewDedicatedClient(DedicatedConfig{
		Endpoint:      server.URL,
		APIKey:        "genai-key",
		CompartmentID: "ocid1.compartment.oc1..example",
	})

	_, err := c.Complete(context.Background(), Request{Model: "xai.grok-3", UserPrompt: "hi"})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}

	var providerErr *ppttranslator.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if providerErr.Provider != "dedicated" {
		t.Errorf("expected provider dedicated, got %q", providerErr.Provider)
	}
	if !strings.Contains(providerErr.Message, "429") {
		t.Errorf("expected status code in message, got %q", providerErr.Message)
	}
}

func TestDedicatedClient_Complete_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"chatResponse":{"choices":[]}}`)
	}))
	defer server.Close()

	c := NewDedicatedClient(DedicatedConfig{
		Endpoint:      server.URL,
		APIKey:        "genai-key",
		CompartmentID: "ocid1.compartment.oc1..example",
	})

	_, err := c.Complete(context.Background(), Request{Model: "xai.grok-3", UserPrompt: "hi"})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}

	var providerErr *ppttranslator.ProviderError
	if !errors.As(err, &providerErr) {
		t.Errorf("expected ProviderError, got %T: %v", err, err)
	}
}

func TestDedicatedClient_Defaults(t *testing.T) {
	c := NewDedicatedClient(DedicatedConfig{APIKey: "k", CompartmentID: "c"})

	if c.endpoint != DefaultDedicatedEndpoint {
		t.Errorf("expected default endpoint, got %q", c.endpoint)
	}
	if c.httpClient.Timeout != defaultReadTimeout {
		t.Errorf("expected default read timeout, got %v", c.httpClient.Timeout)
	}
}

func TestMockClient(t *testing.T) {
	m := &MockClient{
		Translations: map[string]string{
			"Translate: Hello": "Translate: Bonjour",
		},
	}

	out, err := m.Complete(context.Background(), Request{Model: "gpt-4o", UserPrompt: "Translate: Hello"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "Translate: Bonjour" {
		t.Errorf("expected canned reply, got %q", out)
	}

	// Unknown prompts echo back.
	out, err = m.Complete(context.Background(), Request{Model: "gpt-4o", UserPrompt: "Unknown"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "Unknown" {
		t.Errorf("expected echo, got %q", out)
	}

	if m.CallCount != 2 {
		t.Errorf("expected CallCount 2, got %d", m.CallCount)
	}
	if len(m.Requests) != 2 || m.Requests[1].UserPrompt != "Unknown" {
		t.Errorf("unexpected recorded requests: %+v", m.Requests)
	}

	m.Reset()
	if m.CallCount != 0 || m.Requests != nil {
		t.Error("Reset should clear recorded calls")
	}
}
