// Package provider implements the translation back-ends: a generic client
// for OpenAI-compatible endpoints, a dedicated client for sovereign-cloud
// inference endpoints, and a scripted mock for tests.
package provider

import ppttranslator "github.com/engchina/No.1-PPT-Translator"

// Client is the interface translation back-ends implement.
// This is an alias to the main package interface for convenience.
type Client = ppttranslator.ProviderClient

// Request is an alias to the main package type.
type Request = ppttranslator.CompletionRequest
