package api

import "testing"

func TestHeadersMerge(t *testing.T) {
	base := Headers{"x-api-key": "vendor", "content-type": "application/json"}
	base.Merge(Headers{"x-api-key": "caller"})

	// Caller values win on key collision.
	if base.Get("x-api-key") != "caller" {
		t.Errorf("x-api-key = %q, want caller override", base.Get("x-api-key"))
	}
	if base.Get("content-type") != "application/json" {
		t.Errorf("content-type = %q", base.Get("content-type"))
	}
}
