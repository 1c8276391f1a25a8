package llm

import "context"

// Provider is the generation port. Implementations turn a prompt, an
// optional image and a system instruction into text.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
