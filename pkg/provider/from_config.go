package provider

import (
	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/config"
	"github.com/modelmux/modelmux/pkg/debug"
	"github.com/modelmux/modelmux/pkg/provider/anthropic"
	"github.com/modelmux/modelmux/pkg/provider/gemini"
	"github.com/modelmux/modelmux/pkg/provider/openai"
)

// FromConfig builds a registry holding one provider per configured vendor.
// A vendor is configured when its API key resolved to a non-empty value.
func FromConfig(cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	if pc := cfg.Providers.Anthropic; pc.Enabled() {
		p, err := anthropic.New(anthropic.Config{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			Version:      pc.Version,
			BetaFeatures: pc.BetaFeatures,
			Timeout:      cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		debug.Log("config", "registered provider", "provider", p.Name())
	}

	if pc := cfg.Providers.OpenAI; pc.Enabled() {
		p, err := openai.New(openai.Config{
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			Organization: pc.Organization,
			Timeout:      cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		debug.Log("config", "registered provider", "provider", p.Name())
	}

	if pc := cfg.Providers.Gemini; pc.Enabled() {
		p, err := gemini.New(gemini.Config{
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(p)
		debug.Log("config", "registered provider", "provider", p.Name())
	}

	if len(registry.List()) == 0 {
		return nil, api.NewConfigError("no providers configured")
	}
	return registry, nil
}
