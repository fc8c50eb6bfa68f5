// Package anthropic adapts the Anthropic Messages API to the unified
// modelmux model. System messages move to a top-level field, max_tokens is
// inferred from the model name when unset, and the named-event SSE stream
// is normalized into unified events.
package anthropic
