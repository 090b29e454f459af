package ppttranslator

import (
	"context"
	"errors"
	"strings"
)

// DedicatedModelPrefix routes a model identifier to the dedicated provider.
// Everything else goes to the generic OpenAI-compatible provider.
const DedicatedModelPrefix = "xai."

// ProviderKind identifies which back-end serves a model.
type ProviderKind int

const (
	ProviderGeneric ProviderKind = iota
	ProviderDedicated
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderDedicated:
		return "dedicated"
	default:
		return "generic"
	}
}

// ProviderFor returns the back-end kind serving the given model identifier.
func ProviderFor(modelID string) ProviderKind {
	if strings.HasPrefix(modelID, DedicatedModelPrefix) {
		return ProviderDedicated
	}
	return ProviderGeneric
}

// CompletionRequest is one prompt pair sent to a provider.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// ProviderClient is the interface translation back-ends implement.
type ProviderClient interface {
	// Complete sends the prompts and returns the model's text response.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name identifies the back-end in errors and logs.
	Name() string
}

// TranslationCache stores finished translations keyed by CacheKey.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Translator translates single text units. It routes each request to the
// right provider by model prefix, consults the cache, paces requests, retries
// transient failures and degrades to the source text once attempts run out.
type Translator struct {
	generic   ProviderClient
	dedicated ProviderClient
	policy    RetryPolicy
	cache     TranslationCache
	limiter   *RateLimiter
	prompts   Prompts
	logf      func(format string, args ...any)
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) TranslatorOption {
	return func(t *Translator) {
		t.policy = policy
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRateLimit paces provider requests.
func WithRateLimit(cfg RateLimitConfig) TranslatorOption {
	return func(t *Translator) {
		t.limiter = NewRateLimiter(cfg)
	}
}

// WithPrompts overrides the built-in prompt templates.
func WithPrompts(prompts Prompts) TranslatorOption {
	return func(t *Translator) {
		t.prompts = prompts
	}
}

// WithLogFunc routes per-unit log lines (source text, translation, retry
// attempts) to the given printf-style function.
func WithLogFunc(logf func(format string, args ...any)) TranslatorOption {
	return func(t *Translator) {
		t.logf = logf
	}
}

// NewTranslator creates a Translator. Either client may be nil; selecting a
// model served by a missing client yields a ConfigError at translation time.
func NewTranslator(generic, dedicated ProviderClient, opts ...TranslatorOption) *Translator {
	t := &Translator{
		generic:   generic,
		dedicated: dedicated,
		policy:    DefaultRetryPolicy(),
		prompts:   DefaultPrompts(),
		logf:      func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates one text unit to the target language using the model.
// On success the result is cached and returned. Transient provider failures
// are retried per the policy; when every attempt fails the source text is
// returned unchanged with a nil error, so one stubborn unit never sinks the
// deck. Configuration errors and cancellations are returned as errors.
func (t *Translator) Translate(ctx context.Context, text, targetLang, modelID string) (string, error) {
	key := CacheKey(HashText(text), targetLang, modelID)
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			t.logf("Translation served from cache")
			return cached, nil
		}
	}

	client, err := t.clientFor(modelID)
	if err != nil {
		return "", err
	}

	req := CompletionRequest{
		Model:        modelID,
		SystemPrompt: t.prompts.System,
		UserPrompt:   t.prompts.BuildUser(targetLang, text),
	}

	attempt := 0
	translated, err := Retry(ctx, t.policy, func() (string, error) {
		attempt++
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		out, err := client.Complete(ctx, req)
		if err != nil {
			t.logf("Attempt %d/%d failed: %v", attempt, t.policy.MaxAttempts, err)
			return "", err
		}
		return out, nil
	})
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			t.logf("All %d attempts failed. Keeping original text.", t.policy.MaxAttempts)
			return text, nil
		}
		return "", err
	}

	t.logf("Source: %s", text)
	t.logf("Translated: %s", translated)

	if t.cache != nil {
		_ = t.cache.Set(key, translated) // cache failures never fail the unit
	}

	return translated, nil
}

// clientFor picks the client serving the model, or reports missing
// configuration for that back-end.
func (t *Translator) clientFor(modelID string) (ProviderClient, error) {
	switch ProviderFor(modelID) {
	case ProviderDedicated:
		if t.dedicated == nil {
			return nil, &ConfigError{Message: "dedicated provider is not configured"}
		}
		return t.dedicated, nil
	default:
		if t.generic == nil {
			return nil, &ConfigError{Message: "generic provider is not configured"}
		}
		return t.generic, nil
	}
}
