package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "LEARNOVA_"

// envKey maps LEARNOVA_GENERATION__TIMEOUT_SECONDS to generation.timeout_seconds.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LEARNOVA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	// The file may carry the token secret and OAuth client secret.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DBPath is the SQLite file under DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "learnova.db")
}

var validProviders = map[ProviderType]bool{
	ProviderGoogle:    true,
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderOllama:    true,
}

var validEngines = map[string]bool{
	EngineLegacy:     true,
	EngineCommonMark: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai, anthropic, ollama", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("app_id is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !validEngines[c.Render.Engine] {
		return fmt.Errorf("invalid render.engine %q: must be legacy or commonmark", c.Render.Engine)
	}
	if c.Generation.TimeoutSeconds <= 0 {
		return fmt.Errorf("generation.timeout_seconds must be positive")
	}
	if c.Generation.RPM < 0 {
		return fmt.Errorf("generation.rpm must be non-negative")
	}
	if c.Generation.MaxImageBytes <= 0 {
		return fmt.Errorf("generation.max_image_bytes must be positive")
	}
	if c.Identity.FreeUsesLimit < 0 {
		return fmt.Errorf("identity.free_uses_limit must be non-negative")
	}
	if c.Identity.SessionTTLHours <= 0 {
		return fmt.Errorf("identity.session_ttl_hours must be positive")
	}
	return nil
}

// VisionModelOrDefault returns the model for image questions.
func (c *Config) VisionModelOrDefault() string {
	if c.VisionModel != "" {
		return c.VisionModel
	}
	return c.Model
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
