package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/debug"
	"github.com/modelmux/modelmux/pkg/observability"
)

const providerName = "openai"

// Provider talks to the OpenAI Chat Completions API or any compatible
// endpoint.
type Provider struct {
	config Config

	client       *http.Client
	streamClient *http.Client
}

// New creates an OpenAI provider. The API key is required; all other config
// fields fall back to production defaults.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, api.NewConfigError("openai: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Provider{
		config:       cfg,
		client:       &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
	}, nil
}

// Name returns the stable provider identifier used in routing.
func (p *Provider) Name() string {
	return providerName
}

// BuildHeaders merges the vendor-fixed headers with caller-supplied ones;
// caller values win on collision.
func (p *Provider) BuildHeaders(custom api.Headers) api.Headers {
	headers := api.Headers{
		"Authorization": "Bearer " + p.config.APIKey,
		"Content-Type":  "application/json",
	}
	if p.config.Organization != "" {
		headers.Set("OpenAI-Organization", p.config.Organization)
	}
	headers.Merge(custom)
	return headers
}

// Generate performs a single non-streaming round trip.
func (p *Provider) Generate(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error) {
	httpReq, err := p.newRequest(ctx, req, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, networkError(err)
	}
	defer resp.Body.Close()
	observability.ProviderLatency.WithLabelValues(providerName, req.Model).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, httpError(resp.StatusCode, resp.Body)
	}

	var wireResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, api.NewInvalidResponseError(providerName, "decoding response: "+err.Error())
	}

	out, err := parseResponse(&wireResp)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, err
	}

	observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "ok").Inc()
	observability.RecordUsage(providerName, req.Model, out.Usage.PromptTokens, out.Usage.CompletionTokens)
	return out, nil
}

// Stream opens a streaming generation. Usage accounting is requested via
// stream_options so the final chunk carries token counts.
func (p *Provider) Stream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamEvent, error) {
	httpReq, err := p.newRequest(ctx, req, true)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.streamClient.Do(httpReq)
	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, networkError(err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "error").Inc()
		return nil, httpError(resp.StatusCode, resp.Body)
	}

	observability.ProviderRequestsTotal.WithLabelValues(providerName, req.Model, "ok").Inc()
	observability.StreamsActive.Inc()

	ch := make(chan api.StreamEvent, 16)
	go func() {
		defer resp.Body.Close()
		defer observability.StreamsActive.Dec()
		processStream(ctx, resp.Body, ch)
	}()
	return ch, nil
}

// ListModels queries the vendor's model catalog.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/models", nil)
	if err != nil {
		return nil, api.NewTranslationError(providerName, "building request: "+err.Error())
	}
	p.BuildHeaders(nil).Apply(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp.StatusCode, resp.Body)
	}

	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, api.NewInvalidResponseError(providerName, "decoding model list: "+err.Error())
	}

	models := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	p.streamClient.CloseIdleConnections()
	return nil
}

func (p *Provider) newRequest(ctx context.Context, req *api.GenerateRequest, stream bool) (*http.Request, error) {
	wire, err := translateRequest(req, stream)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, api.NewTranslationError(providerName, "encoding request: "+err.Error())
	}
	debug.Trace("providers", "openai request", "model", req.Model, "stream", stream,
		"body", debug.Truncate(string(payload), 500))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, api.NewTranslationError(providerName, "building request: "+err.Error())
	}
	p.BuildHeaders(req.Options.Headers).Apply(httpReq)
	return httpReq, nil
}
