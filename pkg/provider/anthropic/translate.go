package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/debug"
)

// anthropicBlock is one request content block. The Type field selects which
// of the remaining fields are set.
type anthropicBlock struct {
	Type      string                `json:"type"`
	Text      string                `json:"text,omitempty"`
	Source    *anthropicImageSource `json:"source,omitempty"`
	ID        string                `json:"id,omitempty"`
	Name      string                `json:"name,omitempty"`
	Input     json.RawMessage       `json:"input,omitempty"`
	ToolUseID string                `json:"tool_use_id,omitempty"`
	Content   json.RawMessage       `json:"content,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// translateRequest converts a unified request into the Messages API shape.
// System messages move to the top-level system field, tool-role messages are
// rejected, and max_tokens is inferred from the model name when unset.
func translateRequest(req *api.GenerateRequest, stream bool) (*anthropicRequest, error) {
	out := &anthropicRequest{
		Model:         req.Model,
		Temperature:   req.Options.Temperature,
		TopP:          req.Options.TopP,
		StopSequences: req.Options.StopSequences,
		Stream:        stream,
	}

	if req.Options.MaxTokens != nil {
		out.MaxTokens = *req.Options.MaxTokens
	} else {
		out.MaxTokens = inferMaxTokens(req.Model)
	}

	var system []string
	for _, msg := range req.Messages {
		switch msg.Role {
		case api.RoleSystem:
			if text, ok := msg.Text(); ok {
				system = append(system, text)
			}
		case api.RoleUser, api.RoleAssistant:
			content, err := translateContent(msg.Content)
			if err != nil {
				return nil, err
			}
			out.Messages = append(out.Messages, anthropicMessage{
				Role:    string(msg.Role),
				Content: content,
			})
		case api.RoleTool:
			return nil, api.NewTranslationError("anthropic",
				"tool role messages are not supported, use a tool_result content part on a user message")
		default:
			return nil, api.NewTranslationError("anthropic",
				fmt.Sprintf("unsupported role %q", msg.Role))
		}
	}
	out.System = strings.Join(system, "\n\n")

	for _, tool := range req.Options.Tools {
		out.Tools = append(out.Tools, anthropicTool{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: tool.Function.Parameters,
		})
	}

	if tc := req.Options.ToolChoice; tc != nil {
		switch tc.Mode {
		case api.ToolChoiceAuto:
			out.ToolChoice = map[string]any{"type": "auto"}
		case api.ToolChoiceNone:
			out.ToolChoice = map[string]any{"type": "none"}
		case api.ToolChoiceRequired:
			if tc.Name != "" {
				out.ToolChoice = map[string]any{"type": "tool", "name": tc.Name}
			} else {
				out.ToolChoice = map[string]any{"type": "any"}
			}
		}
	}

	return out, nil
}

// translateContent converts message content into the vendor's string-or-array
// form. A lone text part collapses to a plain string; everything else becomes
// an array of typed blocks.
func translateContent(content api.MessageContent) (any, error) {
	if text, ok := content.Text(); ok && !content.IsParts() {
		return text, nil
	}

	parts := content.Parts()
	if len(parts) == 1 && parts[0].Type == api.PartText {
		return parts[0].Text, nil
	}

	blocks := make([]anthropicBlock, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case api.PartText:
			blocks = append(blocks, anthropicBlock{Type: "text", Text: part.Text})
		case api.PartImage:
			source, err := parseImageSource(part.URL)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, anthropicBlock{Type: "image", Source: source})
		case api.PartToolCall:
			blocks = append(blocks, anthropicBlock{
				Type:  "tool_use",
				ID:    part.ID,
				Name:  part.Name,
				Input: part.Arguments,
			})
		case api.PartToolResult:
			blocks = append(blocks, anthropicBlock{
				Type:      "tool_result",
				ToolUseID: part.ToolCallID,
				Content:   part.Content,
			})
		default:
			return nil, api.NewTranslationError("anthropic",
				fmt.Sprintf("unsupported content part type %q", part.Type))
		}
	}
	return blocks, nil
}

// parseImageSource splits a base64 data URL into media type and payload. The
// vendor cannot fetch remote images, so bare URLs are rejected.
func parseImageSource(url string) (*anthropicImageSource, error) {
	if !strings.HasPrefix(url, "data:") {
		return nil, api.NewTranslationError("anthropic",
			fmt.Sprintf("image must be a base64 data URL, got %q", debug.Truncate(url, 64)))
	}
	header, data, found := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !found {
		return nil, api.NewTranslationError("anthropic", "malformed data URL: missing comma separator")
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, api.NewTranslationError("anthropic", "data URL must be base64 encoded")
	}
	return &anthropicImageSource{
		Type:      "base64",
		MediaType: mediaType,
		Data:      data,
	}, nil
}
