package ppttranslator

import (
	"errors"
	"fmt"
)

// ErrStopped reports a run that ended because the stop signal was observed.
// It is an expected outcome, distinct from failure; no output file exists.
var ErrStopped = errors.New("translation stopped by request")

// NotFoundError indicates the input presentation path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// ProviderError indicates a translation back-end failure (transport error,
// timeout, malformed or empty response). Provider errors are transient: the
// translator retries them and degrades to the source text on exhaustion.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates the selected provider is missing required
// configuration (API key, compartment id). It is fatal at first use and is
// never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// SaveError indicates the translated document could not be written.
type SaveError struct {
	Path  string
	Cause error
}

func (e *SaveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("saving %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("saving %s failed", e.Path)
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}
