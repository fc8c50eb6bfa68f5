package provider

import (
	"context"
	"testing"

	"github.com/modelmux/modelmux/pkg/api"
)

// fakeProvider is a minimal Provider for registry tests.
type fakeProvider struct {
	name   string
	closed bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) BuildHeaders(custom api.Headers) api.Headers {
	h := api.Headers{"x-fake": f.name}
	h.Merge(custom)
	return h
}

func (f *fakeProvider) Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error) {
	return &api.GenerateResponse{}, nil
}

func (f *fakeProvider) Stream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamEvent, error) {
	ch := make(chan api.StreamEvent)
	close(ch)
	return ch, nil
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "anthropic"})

	if _, err := r.Get("anthropic"); err != nil {
		t.Fatalf("Get(anthropic): %v", err)
	}
	if _, err := r.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestRegistryGeminiAlias(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "google"})

	if _, err := r.Get("gemini"); err != nil {
		t.Errorf("gemini alias should resolve to google: %v", err)
	}
	if !r.Has("gemini") {
		t.Error("Has(gemini) = false")
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "openai"})
	r.Register(&fakeProvider{name: "anthropic"})
	r.Register(&fakeProvider{name: "google"})

	tests := []struct {
		model        string
		wantProvider string
		wantModel    string
	}{
		{"openai:gpt-4o", "openai", "gpt-4o"},
		{"anthropic:claude-sonnet-4", "anthropic", "claude-sonnet-4"},
		{"gemini:gemini-2.0-flash", "google", "gemini-2.0-flash"},
		{"gpt-4o", "openai", "gpt-4o"},
		{"o1-mini", "openai", "o1-mini"},
		{"claude-3-5-sonnet", "anthropic", "claude-3-5-sonnet"},
		{"gemini-1.5-pro", "google", "gemini-1.5-pro"},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, local, err := r.Resolve(tt.model)
			if err != nil {
				t.Fatalf("Resolve(%s): %v", tt.model, err)
			}
			if p.Name() != tt.wantProvider {
				t.Errorf("provider = %s, want %s", p.Name(), tt.wantProvider)
			}
			if local != tt.wantModel {
				t.Errorf("local model = %s, want %s", local, tt.wantModel)
			}
		})
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry()
	if _, _, err := r.Resolve("llama-70b"); err == nil {
		t.Error("Resolve with undetectable model should fail")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "openai"})
	r.Register(&fakeProvider{name: "anthropic"})

	got := r.List()
	if len(got) != 2 || got[0] != "anthropic" || got[1] != "openai" {
		t.Errorf("List() = %v", got)
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	fp := &fakeProvider{name: "openai"}
	r.Register(fp)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fp.closed {
		t.Error("provider was not closed")
	}
}
