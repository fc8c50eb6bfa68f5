package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// At least one vendor must be configured.
	if !c.Providers.Anthropic.Enabled() &&
		!c.Providers.OpenAI.Enabled() &&
		!c.Providers.Gemini.Enabled() {
		errs = append(errs, fmt.Errorf("no provider configured: set an api_key for at least one of providers.anthropic, providers.openai, providers.gemini"))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %v", c.Timeout))
	}

	if c.Providers.Anthropic.Enabled() && c.Providers.Anthropic.BaseURL == "" {
		errs = append(errs, fmt.Errorf("providers.anthropic.base_url must not be empty"))
	}
	if c.Providers.OpenAI.Enabled() && c.Providers.OpenAI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("providers.openai.base_url must not be empty"))
	}
	if c.Providers.Gemini.Enabled() && c.Providers.Gemini.BaseURL == "" {
		errs = append(errs, fmt.Errorf("providers.gemini.base_url must not be empty"))
	}

	return errors.Join(errs...)
}
