package api

import "encoding/json"

// FinishReason tells why generation stopped.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishOther         FinishReason = "other"
)

// Usage holds token accounting for a call. TotalTokens equals
// prompt+completion when both come from a single source; vendor-reported
// totals are carried as-is, never recomputed.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolCall is a model-requested function invocation.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ResponseContentType identifies the kind of a response content item.
type ResponseContentType string

const (
	ResponseText     ResponseContentType = "text"
	ResponseToolCall ResponseContentType = "tool_call"
)

// ResponseContent is one item of generated output, in emission order.
type ResponseContent struct {
	Type     ResponseContentType `json:"type"`
	Text     string              `json:"text,omitempty"`
	ToolCall *ToolCall           `json:"tool_call,omitempty"`
}

// TextContentItem creates a text response item.
func TextContentItem(text string) ResponseContent {
	return ResponseContent{Type: ResponseText, Text: text}
}

// ToolCallContentItem creates a tool call response item.
func ToolCallContentItem(call ToolCall) ResponseContent {
	return ResponseContent{Type: ResponseToolCall, ToolCall: &call}
}

// GenerateResponse is the unified non-streaming result.
//
// Invariant: when any content item is a tool call, FinishReason is
// FinishToolCalls regardless of the vendor's raw stop signal.
type GenerateResponse struct {
	Content      []ResponseContent `json:"content"`
	Usage        Usage             `json:"usage"`
	FinishReason FinishReason      `json:"finish_reason"`

	// Metadata carries vendor id/model fields opaquely for diagnostics.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Text returns all text items concatenated.
func (r *GenerateResponse) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type == ResponseText {
			out += c.Text
		}
	}
	return out
}

// ToolCalls returns all tool call items in emission order.
func (r *GenerateResponse) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, c := range r.Content {
		if c.Type == ResponseToolCall && c.ToolCall != nil {
			calls = append(calls, *c.ToolCall)
		}
	}
	return calls
}

// HasToolCalls reports whether any content item is a tool call.
func (r *GenerateResponse) HasToolCalls() bool {
	for _, c := range r.Content {
		if c.Type == ResponseToolCall {
			return true
		}
	}
	return false
}
