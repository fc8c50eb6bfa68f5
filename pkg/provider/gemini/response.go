package gemini

import (
	"github.com/modelmux/modelmux/pkg/api"
)

// parseResponse converts a generateContent response into the unified form.
// The wire format never supplies tool-call ids, so each function call gets a
// generated one. A response with function calls always finishes with
// FinishToolCalls.
func parseResponse(resp *geminiResponse) (*api.GenerateResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, api.NewInvalidResponseError("google", "response contains no candidates")
	}
	candidate := resp.Candidates[0]

	out := &api.GenerateResponse{}
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			out.Content = append(out.Content, api.TextContentItem(part.Text))
		}
		if part.FunctionCall != nil {
			out.Content = append(out.Content, api.ToolCallContentItem(api.ToolCall{
				ID:        api.NewCallID(),
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			}))
		}
	}
	if len(out.Content) == 0 {
		return nil, api.NewInvalidResponseError("google", "response contains no content parts")
	}

	if resp.UsageMetadata != nil {
		out.Usage = api.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	out.FinishReason = mapFinishReason(candidate.FinishReason)
	if out.HasToolCalls() {
		out.FinishReason = api.FinishToolCalls
	}
	if resp.ModelVersion != "" {
		out.Metadata = map[string]any{"model": resp.ModelVersion}
	}
	return out, nil
}

func mapFinishReason(reason string) api.FinishReason {
	switch reason {
	case "STOP":
		return api.FinishStop
	case "MAX_TOKENS":
		return api.FinishLength
	case "SAFETY":
		return api.FinishContentFilter
	default:
		return api.FinishOther
	}
}
