package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleProvider implements Provider using the Gemini API through the genai SDK.
type GoogleProvider struct {
	client *genai.Client
	model  string
}

// NewGoogleProvider creates a new Gemini provider.
func NewGoogleProvider(ctx context.Context, apiKey string, model string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google provider: %w", ErrMissingAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GoogleProvider{client: client, model: model}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

// geminiContents splits a request into the system instruction and the
// conversation turns. Images join the final user turn after its text.
func geminiContents(req CompletionRequest) (*genai.Content, []*genai.Content) {
	var system []*genai.Part
	var contents []*genai.Content

	last := req.lastUserIndex()
	for i, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, genai.NewPartFromText(msg.Content))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			parts := []*genai.Part{genai.NewPartFromText(msg.Content)}
			if i == last {
				for _, img := range req.Images {
					parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
				}
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
		}
	}

	if last < 0 && req.HasImages() {
		var parts []*genai.Part
		for _, img := range req.Images {
			parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	if len(system) == 0 {
		return nil, contents
	}
	return &genai.Content{Parts: system}, contents
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	system, contents := geminiContents(req)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(maxTokens),
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	out := &CompletionResponse{
		Content: text,
		Model:   model,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
