package provider

import (
	"context"
	"sync"
)

// MockClient is a scripted back-end for tests. With no script configured it
// echoes the user prompt back, behaving like an identity translator.
type MockClient struct {
	mu sync.Mutex

	// Script, when set, computes every response.
	Script func(req Request) (string, error)

	// Translations maps a user prompt to its canned reply. Consulted when
	// Script is nil.
	Translations map[string]string

	// Err is returned on every call when Script is nil and Err is set.
	Err error

	// CallCount and Requests record every call in order.
	CallCount int
	Requests  []Request
}

// Complete replays the configured script.
func (m *MockClient) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Requests = append(m.Requests, req)

	if m.Script != nil {
		return m.Script(req)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if reply, ok := m.Translations[req.UserPrompt]; ok {
		return reply, nil
	}
	return req.UserPrompt, nil
}

// Name identifies the back-end in errors and logs.
func (m *MockClient) Name() string {
	return "mock"
}

// Reset clears the recorded calls.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.Requests = nil
}

// Verify MockClient implements Client
var _ Client = (*MockClient)(nil)
