package llm

import (
	"context"
	"fmt"
	"os"
)

// Options selects and configures a provider.
type Options struct {
	Provider string
	Model    string
	// BaseURL overrides the endpoint for openai-compatible servers.
	BaseURL string
	// RPM caps requests per minute; zero means unlimited.
	RPM int
}

// NewProvider creates a provider from opts. API keys come from the
// environment: GOOGLE_API_KEY (or GEMINI_API_KEY), OPENAI_API_KEY,
// ANTHROPIC_API_KEY. Ollama reads OLLAMA_HOST.
func NewProvider(ctx context.Context, opts Options) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch opts.Provider {
	case "google", "gemini":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY: %w", ErrMissingAPIKey)
		}
		p, err = NewGoogleProvider(ctx, apiKey, opts.Model)
		if err != nil {
			return nil, err
		}

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" && opts.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY: %w", ErrMissingAPIKey)
		}
		p = NewOpenAIProvider(apiKey, opts.Model, opts.BaseURL)

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY: %w", ErrMissingAPIKey)
		}
		p = NewAnthropicProvider(apiKey, opts.Model)

	case "ollama":
		host := opts.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		p = NewOllamaProvider(host, opts.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Provider)
	}

	return NewRateLimitedProvider(p, opts.RPM), nil
}
