package anthropic

import (
	"fmt"

	"github.com/modelmux/modelmux/pkg/api"
)

// parseResponse converts a Messages API response into the unified form.
// Content items keep their emission order, thinking blocks surface as
// bracketed text, and a response containing tool calls always finishes with
// FinishToolCalls regardless of the raw stop_reason.
func parseResponse(resp *anthropicResponse) (*api.GenerateResponse, error) {
	if len(resp.Content) == 0 {
		return nil, api.NewInvalidResponseError("anthropic", "response contains no content blocks")
	}

	out := &api.GenerateResponse{
		Usage: api.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
		Metadata: map[string]any{
			"id":    resp.ID,
			"model": resp.Model,
		},
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Content = append(out.Content, api.TextContentItem(block.Text))
		case "thinking":
			out.Content = append(out.Content, api.TextContentItem(
				fmt.Sprintf("[Thinking: %s]", block.Thinking)))
		case "tool_use":
			out.Content = append(out.Content, api.ToolCallContentItem(api.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			}))
		}
	}

	out.FinishReason = mapStopReason(resp.StopReason)
	if out.HasToolCalls() {
		out.FinishReason = api.FinishToolCalls
	}
	return out, nil
}

func mapStopReason(reason string) api.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return api.FinishStop
	case "max_tokens":
		return api.FinishLength
	case "tool_use":
		return api.FinishToolCalls
	default:
		return api.FinishOther
	}
}
