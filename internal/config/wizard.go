package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to Learnova! Let's set up your study assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select AI provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	preset := GetPreset(cfg.Provider)

	modelPrompt := promptui.Prompt{
		Label:   "Model for text questions",
		Default: preset.Model,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	visionPrompt := promptui.Prompt{
		Label:   "Model for questions with an image",
		Default: preset.VisionModel,
	}
	if cfg.VisionModel, err = visionPrompt.Run(); err != nil {
		return nil, fmt.Errorf("vision model: %w", err)
	}

	enginePrompt := promptui.Select{
		Label: "Answer renderer",
		Items: []string{
			"legacy     - styled study-card markup",
			"commonmark - full CommonMark with tables and highlighting",
		},
	}
	engineIdx, _, err := enginePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("engine selection: %w", err)
	}
	cfg.Render.Engine = []string{EngineLegacy, EngineCommonMark}[engineIdx]

	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	appPrompt := promptui.Prompt{
		Label:   "App ID (namespaces stored settings)",
		Default: cfg.AppID,
	}
	if cfg.AppID, err = appPrompt.Run(); err != nil {
		return nil, fmt.Errorf("app id: %w", err)
	}

	secret, err := NewSecret(rand.Reader)
	if err != nil {
		return nil, err
	}
	cfg.Identity.TokenSecret = secret

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running learnova.\n", envVar)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// NewSecret returns 32 random bytes, hex encoded.
func NewSecret(r io.Reader) (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
