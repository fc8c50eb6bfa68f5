package openai

import (
	"errors"
	"testing"

	"github.com/modelmux/modelmux/pkg/api"
)

func TestParseResponse_Text(t *testing.T) {
	resp := &openaiResponse{
		ID:    "chatcmpl-1",
		Model: "gpt-4o",
		Choices: []openaiChoice{{
			Message:      openaiResponseMessage{Role: "assistant", Content: "Hello!"},
			FinishReason: "stop",
		}},
		Usage: openaiUsage{PromptTokens: 9, CompletionTokens: 3, TotalTokens: 12},
	}

	out, err := parseResponse(resp)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if out.Text() != "Hello!" {
		t.Errorf("text = %q", out.Text())
	}
	if out.FinishReason != api.FinishStop {
		t.Errorf("finish = %q", out.FinishReason)
	}
	// Usage carried verbatim, not recomputed.
	if out.Usage != (api.Usage{PromptTokens: 9, CompletionTokens: 3, TotalTokens: 12}) {
		t.Errorf("usage = %+v", out.Usage)
	}
}

func TestParseResponse_ToolCallOverridesFinish(t *testing.T) {
	resp := &openaiResponse{
		Choices: []openaiChoice{{
			Message: openaiResponseMessage{
				Role: "assistant",
				ToolCalls: []openaiToolCall{{
					ID:       "call_1",
					Type:     "function",
					Function: openaiFunctionCall{Name: "get_weather", Arguments: `{"city":"Berlin"}`},
				}},
			},
			FinishReason: "stop", // raw reason disagrees with the content
		}},
	}

	out, err := parseResponse(resp)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if out.FinishReason != api.FinishToolCalls {
		t.Errorf("finish = %q, want tool_calls override", out.FinishReason)
	}
	calls := out.ToolCalls()
	if len(calls) != 1 || string(calls[0].Arguments) != `{"city":"Berlin"}` {
		t.Errorf("tool calls = %+v", calls)
	}
}

func TestParseResponse_BrokenArguments(t *testing.T) {
	resp := &openaiResponse{
		Choices: []openaiChoice{{
			Message: openaiResponseMessage{
				ToolCalls: []openaiToolCall{{
					ID:       "call_1",
					Function: openaiFunctionCall{Name: "f", Arguments: `{"broken`},
				}},
			},
			FinishReason: "tool_calls",
		}},
	}

	out, err := parseResponse(resp)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if string(out.ToolCalls()[0].Arguments) != `{}` {
		t.Errorf("broken arguments should fall back to empty object, got %s", out.ToolCalls()[0].Arguments)
	}
}

func TestParseResponse_NoChoices(t *testing.T) {
	_, err := parseResponse(&openaiResponse{})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrInvalidResponse {
		t.Fatalf("err = %v, want invalid_response", err)
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := []struct {
		raw  string
		want api.FinishReason
	}{
		{"stop", api.FinishStop},
		{"length", api.FinishLength},
		{"content_filter", api.FinishContentFilter},
		{"tool_calls", api.FinishToolCalls},
		{"weird", api.FinishOther},
	}
	for _, tt := range tests {
		if got := mapFinishReason(tt.raw); got != tt.want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
