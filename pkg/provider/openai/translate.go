package openai

import (
	"fmt"

	"github.com/modelmux/modelmux/pkg/api"
)

// translateRequest converts a unified request into the Chat Completions
// shape. Roles map directly; assistant tool calls move into the dedicated
// tool_calls field and tool results into tool_call_id messages. Reasoning
// models drop temperature and top_p and pin a medium reasoning effort.
func translateRequest(req *api.GenerateRequest, stream bool) (*openaiRequest, error) {
	out := &openaiRequest{
		Model:               req.Model,
		Temperature:         req.Options.Temperature,
		TopP:                req.Options.TopP,
		MaxCompletionTokens: req.Options.MaxTokens,
		Stop:                req.Options.StopSequences,
		Stream:              stream,
		FrequencyPenalty:    req.Options.FrequencyPenalty,
		PresencePenalty:     req.Options.PresencePenalty,
	}

	if reasoningModels[req.Model] {
		out.Temperature = nil
		out.TopP = nil
		out.ReasoningEffort = "medium"
	}

	if stream {
		out.StreamOptions = &openaiStreamOptions{IncludeUsage: true}
	}

	for _, msg := range req.Messages {
		wire, err := translateMessage(msg)
		if err != nil {
			return nil, err
		}
		out.Messages = append(out.Messages, wire)
	}

	for _, tool := range req.Options.Tools {
		out.Tools = append(out.Tools, openaiTool{
			Type: tool.Type,
			Function: openaiToolFunction{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	if tc := req.Options.ToolChoice; tc != nil {
		switch tc.Mode {
		case api.ToolChoiceAuto:
			out.ToolChoice = "auto"
		case api.ToolChoiceNone:
			out.ToolChoice = "none"
		case api.ToolChoiceRequired:
			if tc.Name != "" {
				out.ToolChoice = map[string]any{
					"type":     "function",
					"function": map[string]any{"name": tc.Name},
				}
			} else {
				out.ToolChoice = "required"
			}
		}
	}

	return out, nil
}

// translateMessage converts one conversation turn. Tool-call parts populate
// the tool_calls field instead of content; a tool-result part turns the
// message into a tool-role reply keyed by tool_call_id.
func translateMessage(msg api.Message) (openaiMessage, error) {
	out := openaiMessage{Role: string(msg.Role), Name: msg.Name}

	if !msg.Content.IsParts() {
		text, _ := msg.Content.Text()
		out.Content = text
		return out, nil
	}

	var parts []openaiContentPart
	for _, part := range msg.Content.Parts() {
		switch part.Type {
		case api.PartText:
			parts = append(parts, openaiContentPart{Type: "text", Text: part.Text})
		case api.PartImage:
			parts = append(parts, openaiContentPart{
				Type: "image_url",
				ImageURL: &openaiImageURL{
					URL:    part.URL,
					Detail: string(part.Detail),
				},
			})
		case api.PartToolCall:
			out.ToolCalls = append(out.ToolCalls, openaiToolCall{
				ID:   part.ID,
				Type: "function",
				Function: openaiFunctionCall{
					Name:      part.Name,
					Arguments: string(part.Arguments),
				},
			})
		case api.PartToolResult:
			out.ToolCallID = part.ToolCallID
			out.Content = string(part.Content)
		default:
			return openaiMessage{}, api.NewTranslationError("openai",
				fmt.Sprintf("unsupported content part type %q", part.Type))
		}
	}

	// Text and image parts form the content array; a lone text part
	// collapses to a plain string.
	if out.Content == nil && parts != nil {
		if len(parts) == 1 && parts[0].Type == "text" {
			out.Content = parts[0].Text
		} else {
			out.Content = parts
		}
	}
	return out, nil
}
