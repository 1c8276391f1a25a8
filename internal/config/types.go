package config

// ProviderType identifies a generation provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Render engines accepted by render.engine.
const (
	EngineLegacy     = "legacy"
	EngineCommonMark = "commonmark"
)

// Config is the top-level learnova configuration, corresponding to .learnova.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	// Model answers text-only questions; VisionModel answers questions with an image.
	Model       string `yaml:"model" koanf:"model"`
	VisionModel string `yaml:"vision_model" koanf:"vision_model"`
	BaseURL     string `yaml:"base_url,omitempty" koanf:"base_url"`

	AppID   string `yaml:"app_id" koanf:"app_id"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Render     RenderConfig     `yaml:"render" koanf:"render"`
	Generation GenerationConfig `yaml:"generation" koanf:"generation"`
	Identity   IdentityConfig   `yaml:"identity" koanf:"identity"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// RenderConfig selects the answer renderer.
type RenderConfig struct {
	Engine   string `yaml:"engine" koanf:"engine"`
	Sanitize bool   `yaml:"sanitize" koanf:"sanitize"`
}

// GenerationConfig bounds calls to the provider.
type GenerationConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	RPM            int     `yaml:"rpm" koanf:"rpm"`
	MaxTokens      int     `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature    float64 `yaml:"temperature" koanf:"temperature"`
	MaxImageBytes  int64   `yaml:"max_image_bytes" koanf:"max_image_bytes"`
}

// IdentityConfig configures accounts and settings documents.
type IdentityConfig struct {
	FreeUsesLimit int `yaml:"free_uses_limit" koanf:"free_uses_limit"`
	// TokenSecret signs custom sign-in tokens. Empty means a random
	// per-process secret.
	TokenSecret     string       `yaml:"token_secret,omitempty" koanf:"token_secret"`
	SessionTTLHours int          `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
	Google          GoogleConfig `yaml:"google" koanf:"google"`
}

// GoogleConfig holds the OAuth client used for federated sign-in.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id,omitempty" koanf:"client_id"`
	ClientSecret string `yaml:"client_secret,omitempty" koanf:"client_secret"`
	RedirectURL  string `yaml:"redirect_url,omitempty" koanf:"redirect_url"`
}

// Enabled reports whether federated sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}
