package api

import "testing"

func TestErrorFormatting(t *testing.T) {
	err := NewTransportError("anthropic", 429, "rate limited")
	want := "anthropic: transport error (HTTP 429): rate limited"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	terr := NewTranslationError("gemini", "bad image URL")
	if terr.Kind != ErrTranslation || terr.Status != 0 {
		t.Errorf("translation error = %+v", terr)
	}
}
