package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"deadline", fmt.Errorf("gemini generate failed: %w", context.DeadlineExceeded), KindTimeout},
		{"missing key", fmt.Errorf("GOOGLE_API_KEY: %w", ErrMissingAPIKey), KindInvalidCredential},
		{"gemini message", errors.New("Error 400, Message: API key not valid. Please pass a valid API key."), KindInvalidCredential},
		{"status 403", &StatusError{Provider: "ollama", StatusCode: 403}, KindInvalidCredential},
		{"openai 401", &openai.APIError{HTTPStatusCode: 401, Message: "nope"}, KindInvalidCredential},
		{"dial", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}, KindNetwork},
		{"dns", fmt.Errorf("wrapped: %w", &net.DNSError{Err: "no such host", Name: "x"}), KindNetwork},
		{"server error", &StatusError{Provider: "anthropic", StatusCode: 500, Message: "overloaded"}, KindUnknown},
		{"empty", ErrEmptyResponse, KindUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("%s: Classify = %s, want %s", tt.name, got, tt.want)
		}
	}
}
