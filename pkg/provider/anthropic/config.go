package anthropic

import "time"

// DefaultBaseURL is the production Messages API endpoint.
const DefaultBaseURL = "https://api.anthropic.com/v1"

// DefaultVersion is the anthropic-version header value.
const DefaultVersion = "2023-06-01"

// Config holds configuration for the Anthropic adapter.
type Config struct {
	// APIKey for the x-api-key header. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Version is the anthropic-version header. Defaults to DefaultVersion.
	Version string

	// BetaFeatures to enable via the anthropic-beta header
	// (e.g., "prompt-caching-2024-07-31").
	BetaFeatures []string

	// Timeout for non-streaming HTTP requests. Defaults to 120s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with production defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Version: DefaultVersion,
		Timeout: 120 * time.Second,
	}
}
