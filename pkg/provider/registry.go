package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/modelmux/modelmux/pkg/api"
)

// Registry maps provider names to adapters and resolves model strings to
// the adapter that should serve them. It is populated at startup and
// read-mostly afterwards.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its own name. Registering the same name
// twice replaces the earlier adapter.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider registered under id. The "gemini" alias maps to
// "google".
func (r *Registry) Get(id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[canonicalName(id)]
	if !ok {
		return nil, api.NewNotFoundError(fmt.Sprintf("provider not registered: %s", id))
	}
	return p, nil
}

// Has reports whether a provider is registered under id.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[canonicalName(id)]
	return ok
}

// List returns the registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve parses a model string and returns the adapter to serve it plus
// the vendor-local model id, stripped of any "vendor:" prefix. A bare model
// name is routed by prefix heuristics ("gpt-*"/"o1-*" to openai, "claude-*"
// to anthropic, "gemini-*" to google).
func (r *Registry) Resolve(model string) (Provider, string, error) {
	providerID, localModel, err := ParseModel(model)
	if err != nil {
		return nil, "", err
	}
	p, err := r.Get(providerID)
	if err != nil {
		return nil, "", err
	}
	return p, localModel, nil
}

// Close closes every registered provider, returning the first error.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ParseModel splits a model string into a provider id and a vendor-local
// model id. The explicit "vendor:model" form wins; otherwise the provider
// is detected from the model name.
func ParseModel(model string) (providerID, localModel string, err error) {
	if prefix, rest, ok := strings.Cut(model, ":"); ok {
		return canonicalName(prefix), rest, nil
	}
	providerID, err = DetectProvider(model)
	if err != nil {
		return "", "", err
	}
	return providerID, model, nil
}

// DetectProvider guesses the provider from a bare model name.
func DetectProvider(model string) (string, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "gpt-") || strings.HasPrefix(lower, "o1-"):
		return "openai", nil
	case strings.HasPrefix(lower, "claude-"):
		return "anthropic", nil
	case strings.HasPrefix(lower, "gemini-"):
		return "google", nil
	default:
		return "", api.NewNotFoundError(fmt.Sprintf("cannot detect provider for model: %s", model))
	}
}

func canonicalName(id string) string {
	id = strings.ToLower(id)
	if id == "gemini" {
		return "google"
	}
	return id
}
