// Package assistant answers study questions: it validates a submission,
// builds the prompt, calls the generation provider and renders the answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/llm"
	"github.com/ziadkadry99/learnova/internal/markup"
	"github.com/ziadkadry99/learnova/internal/study"
)

var (
	ErrEmptySubmission = errors.New("empty submission")
	ErrImageRead       = errors.New("reading image")
)

// Request is one submission.
type Request struct {
	Question  string      `json:"question"`
	SubjectID string      `json:"subject"`
	Level     study.Level `json:"level"`
	Image     *ImageInput `json:"image,omitempty"`
}

// Answer is a generated explanation.
type Answer struct {
	Markdown string        `json:"answer"`
	HTML     string        `json:"html"`
	Model    string        `json:"model"`
	Provider string        `json:"provider"`
	Usage    llm.Usage     `json:"usage"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Options tunes generation.
type Options struct {
	Model         string
	VisionModel   string
	Timeout       time.Duration
	MaxImageBytes int64
	MaxTokens     int
	Temperature   float64
}

// Service orchestrates a submit. It is safe for concurrent use.
type Service struct {
	provider  llm.Provider
	engine    markup.Engine
	sanitizer *markup.Sanitizer
	opts      Options
	logger    *zap.Logger
}

// New creates a Service. A nil sanitizer leaves rendered markup as is.
func New(provider llm.Provider, engine markup.Engine, sanitizer *markup.Sanitizer, opts Options, logger *zap.Logger) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.VisionModel == "" {
		opts.VisionModel = opts.Model
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider:  provider,
		engine:    engine,
		sanitizer: sanitizer,
		opts:      opts,
		logger:    logger.Named("assistant"),
	}
}

// Engine returns the configured renderer.
func (s *Service) Engine() markup.Engine {
	return s.engine
}

// Explain answers req. Validation and image errors wrap ErrEmptySubmission
// or ErrImageRead; provider errors are returned as *GenerationError.
func (s *Service) Explain(ctx context.Context, req Request) (*Answer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" && req.Image == nil {
		return nil, ErrEmptySubmission
	}

	var images []llm.Image
	if req.Image != nil {
		img, err := DecodeImage(*req.Image, s.opts.MaxImageBytes)
		if err != nil {
			s.logger.Info("image rejected", zap.String("name", req.Image.Name), zap.Error(err))
			return nil, err
		}
		images = append(images, img)
	}

	subject, ok := study.SubjectByID(req.SubjectID)
	if !ok {
		subject, _ = study.SubjectByID(study.SubjectGeneral)
	}
	level, _ := study.ParseLevel(string(req.Level))

	model := s.opts.Model
	if len(images) > 0 {
		model = s.opts.VisionModel
	}
	creq := llm.CompletionRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: study.InstructionFor(level)},
			{Role: llm.RoleUser, Content: study.BuildPrompt(subject, question)},
		},
		Images:      images,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(ctx, creq)
	elapsed := time.Since(start)
	if err != nil {
		gerr := newGenerationError(err)
		s.logger.Warn("generation failed",
			zap.String("provider", s.provider.Name()),
			zap.String("model", model),
			zap.Stringer("kind", gerr.Kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, gerr
	}

	html, err := s.Render(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("rendering answer: %w", err)
	}

	usage := llm.UsageFor(creq, resp)
	s.logger.Info("answer generated",
		zap.String("provider", s.provider.Name()),
		zap.String("model", resp.Model),
		zap.String("subject", subject.ID),
		zap.String("level", string(level)),
		zap.Bool("image", len(images) > 0),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Float64("cost_usd", usage.CostUSD),
		zap.Duration("elapsed", elapsed))

	return &Answer{
		Markdown: resp.Content,
		HTML:     html,
		Model:    resp.Model,
		Provider: s.provider.Name(),
		Usage:    usage,
		Elapsed:  elapsed,
	}, nil
}

// Render converts markdown with the configured engine and sanitizer.
func (s *Service) Render(src string) (string, error) {
	return renderWith(s.engine, s.sanitizer, src)
}

// RenderWith renders with a named engine, falling back to the configured
// one when name is empty.
func (s *Service) RenderWith(name, src string) (string, error) {
	if name == "" {
		return s.Render(src)
	}
	engine, err := markup.NewEngine(name)
	if err != nil {
		return "", err
	}
	return renderWith(engine, s.sanitizer, src)
}

func renderWith(engine markup.Engine, sanitizer *markup.Sanitizer, src string) (string, error) {
	html, err := engine.Render(src)
	if err != nil {
		return "", err
	}
	if sanitizer != nil {
		html = sanitizer.Sanitize(html)
	}
	return html, nil
}
