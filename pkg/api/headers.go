package api

import "net/http"

// Headers is a single-valued HTTP header map. Later inserts override earlier
// ones, which gives the layering rule used by the adapters: vendor defaults
// first, then caller-supplied headers on top.
type Headers map[string]string

// NewHeaders creates an empty header map.
func NewHeaders() Headers {
	return make(Headers)
}

// Set stores a header value, replacing any existing one.
func (h Headers) Set(key, value string) {
	h[key] = value
}

// Get returns the value for key, or "" when absent.
func (h Headers) Get(key string) string {
	return h[key]
}

// Merge overlays other onto h; values in other win on collision.
func (h Headers) Merge(other Headers) {
	for k, v := range other {
		h[k] = v
	}
}

// Clone returns a copy of h. A nil map clones to an empty one.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Apply sets every header on an outgoing HTTP request.
func (h Headers) Apply(req *http.Request) {
	for k, v := range h {
		req.Header.Set(k, v)
	}
}
