package openai

import (
	"encoding/json"

	"github.com/modelmux/modelmux/pkg/api"
)

// parseResponse converts a Chat Completions response into the unified form.
// Exactly one choice is expected; a response with tool calls always finishes
// with FinishToolCalls regardless of the raw finish_reason.
func parseResponse(resp *openaiResponse) (*api.GenerateResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, api.NewInvalidResponseError("openai", "response contains no choices")
	}
	choice := resp.Choices[0]

	out := &api.GenerateResponse{
		Usage: api.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Metadata: map[string]any{
			"id":      resp.ID,
			"model":   resp.Model,
			"created": resp.Created,
		},
	}

	if choice.Message.Content != "" {
		out.Content = append(out.Content, api.TextContentItem(choice.Message.Content))
	}
	for _, tc := range choice.Message.ToolCalls {
		out.Content = append(out.Content, api.ToolCallContentItem(api.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: parseArguments(tc.Function.Arguments),
		}))
	}

	out.FinishReason = mapFinishReason(choice.FinishReason)
	if out.HasToolCalls() {
		out.FinishReason = api.FinishToolCalls
	}
	return out, nil
}

// parseArguments validates the JSON-encoded argument string, falling back to
// an empty object when the model emitted broken JSON.
func parseArguments(raw string) json.RawMessage {
	if json.Valid([]byte(raw)) && raw != "" {
		return json.RawMessage(raw)
	}
	return json.RawMessage(`{}`)
}

func mapFinishReason(reason string) api.FinishReason {
	switch reason {
	case "stop":
		return api.FinishStop
	case "length":
		return api.FinishLength
	case "content_filter":
		return api.FinishContentFilter
	case "tool_calls":
		return api.FinishToolCalls
	default:
		return api.FinishOther
	}
}
