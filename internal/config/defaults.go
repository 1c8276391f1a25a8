package config

import "time"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".learnova.yml"

// ModelPreset is the pair of models used for a provider.
type ModelPreset struct {
	Model       string
	VisionModel string
}

var modelPresets = map[ProviderType]ModelPreset{
	ProviderGoogle:    {Model: "gemini-2.0-flash", VisionModel: "gemini-2.0-flash"},
	ProviderOpenAI:    {Model: "gpt-4o-mini", VisionModel: "gpt-4o"},
	ProviderAnthropic: {Model: "claude-haiku-4-5", VisionModel: "claude-sonnet-4-5"},
	ProviderOllama:    {Model: "llama3", VisionModel: "llava"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGoogle,
		Model:       modelPresets[ProviderGoogle].Model,
		VisionModel: modelPresets[ProviderGoogle].VisionModel,
		AppID:       "default-app-id",
		DataDir:     ".learnova",
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Render: RenderConfig{
			Engine:   EngineLegacy,
			Sanitize: true,
		},
		Generation: GenerationConfig{
			TimeoutSeconds: 60,
			RPM:            30,
			MaxTokens:      2048,
			Temperature:    0.4,
			MaxImageBytes:  10 << 20,
		},
		Identity: IdentityConfig{
			FreeUsesLimit:   200,
			SessionTTLHours: 24 * 7,
		},
	}
}

// GetPreset returns the model preset for the given provider, falling back
// to Google.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := modelPresets[provider]; ok {
		return p
	}
	return modelPresets[ProviderGoogle]
}

// Timeout is the generation deadline.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// SessionTTL is the lifetime of a sign-in session.
func (i IdentityConfig) SessionTTL() time.Duration {
	return time.Duration(i.SessionTTLHours) * time.Hour
}
