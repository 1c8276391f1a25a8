// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ziadkadry99/learnova/internal/llm"
)

// MockProvider records calls and returns a canned response or error.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []llm.CompletionRequest
	Response *llm.CompletionResponse
	Err      error
	ProvName string
	// Block makes Complete wait for ctx to end, simulating a hung call.
	Block bool
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &llm.CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	block, resp, err := m.Block, m.Response, m.Err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request.
func (m *MockProvider) LastCall() llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return llm.CompletionRequest{}
	}
	return m.Calls[len(m.Calls)-1]
}
