package ai

import (
	"context"
	"sync"
)

// MockProvider is a test double. Tests set Response or Err and can then
// inspect how many times Generate was called and with what prompt.
type MockProvider struct {
	mu         sync.Mutex
	Response   string
	Err        error
	Calls      int
	LastPrompt string
}

func (m *MockProvider) Generate(_ context.Context, req GenerateRequest) (GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastPrompt = req.Prompt
	if m.Err != nil {
		return GenerateResponse{}, m.Err
	}
	return GenerateResponse{Text: m.Response, Model: "mock"}, nil
}

func (m *MockProvider) Models() []ModelInfo {
	return []ModelInfo{{ID: "mock", Name: "Mock", MaxTokens: 4096}}
}

func (m *MockProvider) HealthCheck(_ context.Context) error {
	return nil
}

// CallCount returns the number of Generate calls made so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
