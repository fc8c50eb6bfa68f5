package api

import "github.com/google/uuid"

// NewCallID generates a synthetic tool call id for vendors whose wire
// format does not supply one.
func NewCallID() string {
	return "call_" + uuid.NewString()
}

// NewStreamID generates a stream identifier scoped to a provider, used by
// normalizers that assign ids lazily.
func NewStreamID(provider string) string {
	return provider + "-" + uuid.NewString()
}
