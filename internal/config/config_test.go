package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, "default-app-id", cfg.AppID)
	assert.Equal(t, EngineLegacy, cfg.Render.Engine)
	assert.Equal(t, 200, cfg.Identity.FreeUsesLimit)
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".learnova.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o-mini"
	original.VisionModel = "gpt-4o"
	original.Render.Engine = EngineCommonMark
	original.Generation.TimeoutSeconds = 15
	original.Identity.Google = GoogleConfig{ClientID: "id", ClientSecret: "secret"}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Provider, loaded.Provider)
	assert.Equal(t, original.VisionModel, loaded.VisionModel)
	assert.Equal(t, EngineCommonMark, loaded.Render.Engine)
	assert.Equal(t, 15, loaded.Generation.TimeoutSeconds)
	assert.True(t, loaded.Identity.Google.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err, "a missing file yields defaults")
	assert.Equal(t, ProviderGoogle, cfg.Provider)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("LEARNOVA_PROVIDER", "ollama")
	t.Setenv("LEARNOVA_GENERATION__TIMEOUT_SECONDS", "5")
	t.Setenv("LEARNOVA_IDENTITY__GOOGLE__CLIENT_ID", "from-env")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, loaded.Provider)
	assert.Equal(t, 5, loaded.Generation.TimeoutSeconds)
	assert.Equal(t, "from-env", loaded.Identity.Google.ClientID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "minimax" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty app id", func(c *Config) { c.AppID = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad engine", func(c *Config) { c.Render.Engine = "asciidoc" }},
		{"zero timeout", func(c *Config) { c.Generation.TimeoutSeconds = 0 }},
		{"negative rpm", func(c *Config) { c.Generation.RPM = -1 }},
		{"zero image limit", func(c *Config) { c.Generation.MaxImageBytes = 0 }},
		{"negative free uses", func(c *Config) { c.Identity.FreeUsesLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestVisionModelOrDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VisionModel = ""
	assert.Equal(t, cfg.Model, cfg.VisionModelOrDefault())
}

func TestGetPresetFallback(t *testing.T) {
	assert.Equal(t, "llava", GetPreset(ProviderOllama).VisionModel)
	assert.Equal(t, GetPreset(ProviderGoogle), GetPreset("nope"))
}

func TestNewSecret(t *testing.T) {
	s, err := NewSecret(bytes.NewReader(bytes.Repeat([]byte{0xab}, 32)))
	require.NoError(t, err)
	assert.Len(t, s, 64)

	_, err = NewSecret(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort(" 8080 "))
	assert.Error(t, validatePort("http"))
	assert.Error(t, validatePort("0"))
}
