package provider

import (
	"context"

	"github.com/modelmux/modelmux/pkg/api"
)

// Provider abstracts one LLM vendor API. Each adapter owns its backend
// protocol: request translation, response parsing, and stream
// normalization happen entirely inside the adapter.
//
// Implementations must be safe for concurrent use by multiple goroutines;
// concurrent calls share no mutable state.
type Provider interface {
	// Name returns the stable provider identifier used in routing
	// (e.g., "anthropic", "openai", "google").
	Name() string

	// BuildHeaders merges the vendor-fixed headers (auth, version) with
	// caller-supplied headers. Caller values win on key collision.
	BuildHeaders(custom api.Headers) api.Headers

	// Generate performs a single non-streaming round trip. It fails with a
	// transport error on non-2xx status and an invalid-response error on an
	// unparseable or empty body.
	Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error)

	// Stream opens a streaming generation. The returned channel yields
	// unified events in causal order and is closed by the provider after
	// the terminal Finish or Error event. Cancelling ctx releases the
	// underlying connection.
	Stream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamEvent, error)

	// ListModels returns models the vendor can serve. Optional; adapters
	// without a models endpoint return a static list or nil.
	ListModels(ctx context.Context) ([]string, error)

	// Close releases provider resources (idle HTTP connections).
	Close() error
}
