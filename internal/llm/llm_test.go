package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubProvider returns a fixed answer and counts calls.
type stubProvider struct {
	mu    sync.Mutex
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return &CompletionResponse{Content: "stub response", Model: req.Model}, nil
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func explainRequest(images ...Image) CompletionRequest {
	return CompletionRequest{
		Model: "test-model",
		Messages: []Message{
			{Role: RoleSystem, Content: "Explain simply."},
			{Role: RoleUser, Content: "What is inertia?"},
		},
		Images: images,
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	for _, p := range []string{"anthropic", "openai", "google"} {
		_, err := NewProvider(context.Background(), Options{Provider: p, Model: "some-model"})
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("provider %q: expected ErrMissingAPIKey, got %v", p, err)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	if _, err := NewProvider(context.Background(), Options{Provider: "unknown"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider(context.Background(), Options{Provider: "ollama", Model: "llava"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatalf("expected *OllamaProvider, got %T", provider)
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestFactoryWrapsWithRateLimiter(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	provider, err := NewProvider(context.Background(), Options{Provider: "anthropic", Model: "claude-haiku-4-5", RPM: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*RateLimitedProvider); !ok {
		t.Errorf("expected rate limited provider, got %T", provider)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("expected name 'anthropic', got %q", provider.Name())
	}
}

func TestFactoryCreatesGoogleProvider(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	provider, err := NewProvider(context.Background(), Options{Provider: "gemini", Model: "gemini-2.0-flash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "google" {
		t.Errorf("expected name 'google', got %q", provider.Name())
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	stub := &stubProvider{}
	rl := NewRateLimitedProvider(stub, 60)

	resp, err := rl.Complete(context.Background(), explainRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "stub response" {
		t.Errorf("expected 'stub response', got %q", resp.Content)
	}
	if rl.Name() != "stub" {
		t.Errorf("expected name 'stub', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	stub := &stubProvider{}
	rl := NewRateLimitedProvider(stub, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, explainRequest()); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if _, err := rl.Complete(ctx, explainRequest()); err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 calls to reach the provider, got %d", stub.calls)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	stub := &stubProvider{}
	if got := NewRateLimitedProvider(stub, 0); got != Provider(stub) {
		t.Errorf("expected unwrapped provider, got %T", got)
	}
}

func TestEstimateCost(t *testing.T) {
	// gpt-4o: $2.50/1M input, $10/1M output
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	if cost < 12.49 || cost > 12.51 {
		t.Errorf("expected cost ~$12.50, got $%.2f", cost)
	}
	if cost := EstimateCost("unknown-model", 1000, 500); cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestUsageForEstimatesMissingCounts(t *testing.T) {
	req := explainRequest()
	req.Model = "gemini-2.0-flash"
	u := UsageFor(req, &CompletionResponse{Content: strings.Repeat("x", 400), Model: "gemini-2.0-flash"})
	if !u.Estimated {
		t.Error("expected estimated usage")
	}
	if u.OutputTokens != 100 {
		t.Errorf("expected 100 output tokens, got %d", u.OutputTokens)
	}
	if u.CostUSD <= 0 {
		t.Errorf("expected positive cost, got %f", u.CostUSD)
	}

	reported := UsageFor(req, &CompletionResponse{Content: "a", InputTokens: 7, OutputTokens: 3})
	if reported.Estimated || reported.InputTokens != 7 || reported.OutputTokens != 3 {
		t.Errorf("unexpected usage %+v", reported)
	}
}

func TestGeminiContentsPlacesImageAfterText(t *testing.T) {
	system, contents := geminiContents(explainRequest(Image{Data: pngBytes, MIMEType: "image/png"}))
	if system == nil || len(system.Parts) != 1 || system.Parts[0].Text != "Explain simply." {
		t.Fatalf("unexpected system instruction: %+v", system)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(parts))
	}
	if parts[0].Text != "What is inertia?" {
		t.Errorf("first part should be the question, got %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/png" {
		t.Errorf("second part should be the image, got %+v", parts[1])
	}
}

func TestAnthropicSendsImageBlocks(t *testing.T) {
	var got anthropicRequest
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_ = json.Unmarshal(body, &raw)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Inertia is..."}],"model":"claude-haiku-4-5","stop_reason":"end_turn","usage":{"input_tokens":12,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", "claude-haiku-4-5")
	p.endpoint = srv.URL

	resp, err := p.Complete(context.Background(), explainRequest(Image{Data: pngBytes, MIMEType: "image/png"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "Inertia is..." || resp.InputTokens != 12 {
		t.Errorf("unexpected response %+v", resp)
	}
	if got.System != "Explain simply." {
		t.Errorf("expected system prompt, got %q", got.System)
	}

	msgs := raw["messages"].([]any)
	blocks := msgs[0].(map[string]any)["content"].([]any)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 content blocks, got %d", len(blocks))
	}
	if blocks[0].(map[string]any)["type"] != "text" || blocks[1].(map[string]any)["type"] != "image" {
		t.Errorf("expected text then image, got %v", blocks)
	}
}

func TestAnthropicUnauthorizedIsCredentialError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("bad", "claude-haiku-4-5")
	p.endpoint = srv.URL

	_, err := p.Complete(context.Background(), explainRequest())
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected StatusError 401, got %v", err)
	}
	if Classify(err) != KindInvalidCredential {
		t.Errorf("expected invalid credential, got %s", Classify(err))
	}
}

func TestOllamaAttachesImages(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"It is a diagram."},"model":"llava","done":true,"done_reason":"stop","prompt_eval_count":5,"eval_count":4}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llava")
	resp, err := p.Complete(context.Background(), explainRequest(Image{Data: pngBytes, MIMEType: "image/png"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "It is a diagram." {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if len(got.Messages[0].Images) != 0 || len(got.Messages[1].Images) != 1 {
		t.Errorf("image should ride on the user message: %+v", got.Messages)
	}
}

func TestOllamaEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":""},"done":true}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "llama3").Complete(context.Background(), explainRequest())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOpenAIMultiContent(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"Sure."},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", "gpt-4o-mini", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), explainRequest(Image{Data: pngBytes, MIMEType: "image/png"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "Sure." || resp.OutputTokens != 1 {
		t.Errorf("unexpected response %+v", resp)
	}

	msgs := raw["messages"].([]any)
	user := msgs[1].(map[string]any)
	parts, ok := user["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("expected multi-part user content, got %v", user["content"])
	}
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	if !strings.HasPrefix(img["url"].(string), "data:image/png;base64,") {
		t.Errorf("expected data URI, got %v", img["url"])
	}
}

func TestRoles(t *testing.T) {
	if RoleSystem != "system" || RoleUser != "user" || RoleAssistant != "assistant" {
		t.Error("role constants changed")
	}
}
