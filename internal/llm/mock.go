package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a scripted test double for Provider. Responses are
// served in order; when the script runs out, the last response repeats.
// Set InvokeFunc for full control.
type MockProvider struct {
	// InvokeFunc is called by Invoke if set.
	InvokeFunc func(ctx context.Context, req Request) (*Response, error)

	// Responses are served in order when InvokeFunc is nil.
	Responses []string

	// Err, when set, is returned by every Invoke call.
	Err error

	mu       sync.Mutex
	invoked  int
	requests []Request
}

// NewMockProvider creates a mock serving the given responses in order.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{Responses: responses}
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always reports true.
func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Invoke serves the next scripted response.
func (m *MockProvider) Invoke(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	n := m.invoked
	m.invoked++

	if m.Err != nil {
		return nil, m.Err
	}
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, req)
	}
	if len(m.Responses) == 0 {
		return nil, fmt.Errorf("mock provider has no scripted responses")
	}
	if n >= len(m.Responses) {
		n = len(m.Responses) - 1
	}
	return &Response{Text: m.Responses[n], Model: "mock"}, nil
}

// Invocations returns how many times Invoke was called.
func (m *MockProvider) Invocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invoked
}

// Requests returns a copy of all requests seen so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
