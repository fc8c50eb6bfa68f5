package openai

import "time"

// DefaultBaseURL is the production Chat Completions endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds configuration for the OpenAI adapter.
type Config struct {
	// APIKey for the Authorization header. Required.
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for Azure or local
	// OpenAI-compatible servers. Defaults to DefaultBaseURL.
	BaseURL string

	// Organization sets the OpenAI-Organization header when non-empty.
	Organization string

	// Timeout for non-streaming HTTP requests. Defaults to 120s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with production defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: 120 * time.Second,
	}
}
