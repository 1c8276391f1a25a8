package cmd

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/audit"
	"github.com/ziadkadry99/learnova/internal/config"
	"github.com/ziadkadry99/learnova/internal/db"
	"github.com/ziadkadry99/learnova/internal/identity"
	"github.com/ziadkadry99/learnova/internal/llm"
	"github.com/ziadkadry99/learnova/internal/markup"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `learnova init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newSanitizer(cfg *config.Config) *markup.Sanitizer {
	if !cfg.Render.Sanitize {
		return nil
	}
	return markup.NewSanitizer()
}

// newAssistant creates the generation provider and the assistant around it.
func newAssistant(ctx context.Context, cfg *config.Config) (*assistant.Service, error) {
	provider, err := llm.NewProvider(ctx, llm.Options{
		Provider: string(cfg.Provider),
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		RPM:      cfg.Generation.RPM,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", cfg.Provider, err)
	}
	return newAssistantWith(provider, cfg)
}

// newAssistantWith is newAssistant for an existing provider. Commands that
// never generate use it with a nil provider.
func newAssistantWith(provider llm.Provider, cfg *config.Config) (*assistant.Service, error) {
	engine, err := markup.NewEngine(cfg.Render.Engine)
	if err != nil {
		return nil, err
	}
	return assistant.New(provider, engine, newSanitizer(cfg), assistant.Options{
		Model:         cfg.Model,
		VisionModel:   cfg.VisionModelOrDefault(),
		Timeout:       cfg.Generation.Timeout(),
		MaxImageBytes: cfg.Generation.MaxImageBytes,
		MaxTokens:     cfg.Generation.MaxTokens,
		Temperature:   cfg.Generation.Temperature,
	}, logger), nil
}

// newIdentityStore opens the identity store on database. Account events go
// to activity when it is non-nil.
func newIdentityStore(cfg *config.Config, database *db.DB, activity *audit.Store) (*identity.Store, error) {
	opts := identity.Options{
		AppID:         cfg.AppID,
		FreeUsesLimit: cfg.Identity.FreeUsesLimit,
		Secret:        []byte(cfg.Identity.TokenSecret),
		SessionTTL:    cfg.Identity.SessionTTL(),
		Logger:        logger,
	}
	if activity != nil {
		opts.Recorder = activity
	}
	if g := cfg.Identity.Google; g.Enabled() {
		opts.Google = identity.NewOAuthVerifier(g.ClientID, g.ClientSecret, g.RedirectURL)
	}
	return identity.NewStore(database, opts)
}
