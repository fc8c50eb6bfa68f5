package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelmux/modelmux/pkg/api"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrConfig {
		t.Fatalf("err = %v, want config error", err)
	}
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want query-parameter auth", r.URL.Query().Get("key"))
		}

		var body geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Role != "user" {
			t.Errorf("contents = %+v", body.Contents)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{{
				Content:      geminiContent{Role: "model", Parts: []geminiPart{{Text: "Hello!"}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &geminiUsage{PromptTokenCount: 8, CandidatesTokenCount: 2, TotalTokenCount: 10},
		})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	resp, err := p.Generate(context.Background(),
		api.NewGenerateRequest("gemini-2.0-flash", api.NewMessage(api.RoleUser, "Hi")))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text() != "Hello!" || resp.Usage.TotalTokens != 10 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "bad-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	_, err = p.Generate(context.Background(),
		api.NewGenerateRequest("gemini-2.0-flash", api.NewMessage(api.RoleUser, "Hi")))
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("err = %v, want transport error with status 403", err)
	}
	if !strings.Contains(apiErr.Message, "API key not valid") {
		t.Errorf("message = %q, want vendor body verbatim", apiErr.Message)
	}
}

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":streamGenerateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi"}]},"index":0}]}
{"candidates":[{"content":{"role":"model","parts":[{"text":"!"}]},"index":0}],"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":1,"totalTokenCount":5}}
`))
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	ch, err := p.Stream(context.Background(),
		api.NewGenerateRequest("gemini-2.0-flash", api.NewMessage(api.RoleUser, "Hi")))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var events []api.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 2 deltas plus synthesized finish: %+v", len(events), events)
	}
	if events[2].Type != api.EventFinish || events[2].Usage.TotalTokens != 5 {
		t.Errorf("terminal = %+v", events[2])
	}
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"models/gemini-2.0-flash"},{"name":"models/gemini-2.5-pro"}]}`))
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0] != "gemini-2.0-flash" {
		t.Errorf("models = %v, want resource prefix stripped", models)
	}
}
