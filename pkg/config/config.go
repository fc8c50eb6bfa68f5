// Package config provides unified configuration for modelmux.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (MODELMUX_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/modelmux/modelmux/pkg/provider/anthropic"
	"github.com/modelmux/modelmux/pkg/provider/gemini"
	"github.com/modelmux/modelmux/pkg/provider/openai"
)

// Config holds all configuration for modelmux.
type Config struct {
	Providers ProvidersConfig `yaml:"providers"`

	// DefaultModel is used when a caller does not name one. May carry a
	// "vendor:" prefix.
	DefaultModel string `yaml:"default_model"`

	// Timeout applies to non-streaming provider round trips.
	Timeout time.Duration `yaml:"timeout"` // default: 120s
}

// ProvidersConfig holds per-vendor settings. A vendor is enabled when its
// API key resolves to a non-empty value.
type ProvidersConfig struct {
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini"`
}

// AnthropicConfig holds Anthropic vendor settings.
type AnthropicConfig struct {
	APIKey       string   `yaml:"api_key"`
	APIKeyFile   string   `yaml:"api_key_file"` // _file variant for api_key
	BaseURL      string   `yaml:"base_url"`
	Version      string   `yaml:"version"`
	BetaFeatures []string `yaml:"beta_features"`
}

// Enabled reports whether the vendor is configured.
func (c AnthropicConfig) Enabled() bool { return c.APIKey != "" }

// OpenAIConfig holds OpenAI vendor settings.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"`
	APIKeyFile   string `yaml:"api_key_file"` // _file variant for api_key
	BaseURL      string `yaml:"base_url"`
	Organization string `yaml:"organization"`
}

// Enabled reports whether the vendor is configured.
func (c OpenAIConfig) Enabled() bool { return c.APIKey != "" }

// GeminiConfig holds Google Gemini vendor settings.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
	BaseURL    string `yaml:"base_url"`
}

// Enabled reports whether the vendor is configured.
func (c GeminiConfig) Enabled() bool { return c.APIKey != "" }

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Providers: ProvidersConfig{
			Anthropic: AnthropicConfig{
				BaseURL: anthropic.DefaultBaseURL,
				Version: anthropic.DefaultVersion,
			},
			OpenAI: OpenAIConfig{
				BaseURL: openai.DefaultBaseURL,
			},
			Gemini: GeminiConfig{
				BaseURL: gemini.DefaultBaseURL,
			},
		},
		Timeout: 120 * time.Second,
	}
}
