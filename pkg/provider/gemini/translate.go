package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/debug"
)

// translateRequest converts a unified request into the generateContent
// shape. The vendor has no system role: all system text is collected and
// prefixed onto the first user turn as a "System instructions:" block.
// Assistant turns are renamed to "model".
func translateRequest(req *api.GenerateRequest) (*geminiRequest, error) {
	out := &geminiRequest{}

	if opts := req.Options; opts.Temperature != nil || opts.TopP != nil ||
		opts.MaxTokens != nil || len(opts.StopSequences) > 0 {
		out.GenerationConfig = &generationConfig{
			Temperature:     opts.Temperature,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxTokens,
			StopSequences:   opts.StopSequences,
		}
	}

	var system []string
	for _, msg := range req.Messages {
		if msg.Role == api.RoleSystem {
			if text, ok := msg.Text(); ok {
				system = append(system, text)
			}
		}
	}

	systemPrefixed := false
	for _, msg := range req.Messages {
		if msg.Role == api.RoleSystem {
			continue
		}
		content, err := translateMessage(msg)
		if err != nil {
			return nil, err
		}
		if !systemPrefixed && content.Role == "user" && len(system) > 0 {
			prefix := geminiPart{
				Text: fmt.Sprintf("System instructions: %s\n\n", strings.Join(system, "\n\n")),
			}
			content.Parts = append([]geminiPart{prefix}, content.Parts...)
			systemPrefixed = true
		}
		out.Contents = append(out.Contents, content)
	}

	if len(req.Options.Tools) > 0 {
		decls := make([]geminiFunctionDecl, 0, len(req.Options.Tools))
		for _, tool := range req.Options.Tools {
			decls = append(decls, geminiFunctionDecl{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			})
		}
		out.Tools = []geminiToolSet{{FunctionDeclarations: decls}}
	}

	if tc := req.Options.ToolChoice; tc != nil {
		mode := "AUTO"
		switch tc.Mode {
		case api.ToolChoiceNone:
			mode = "NONE"
		case api.ToolChoiceRequired:
			mode = "ANY"
		}
		out.ToolConfig = &geminiToolConfig{
			FunctionCallingConfig: functionCallingConfig{Mode: mode},
		}
	}

	return out, nil
}

// translateMessage converts one non-system turn into vendor content.
func translateMessage(msg api.Message) (geminiContent, error) {
	var role string
	switch msg.Role {
	case api.RoleUser:
		role = "user"
	case api.RoleAssistant:
		role = "model"
	case api.RoleTool:
		return geminiContent{}, api.NewTranslationError("google",
			"tool role messages are not supported, use a tool_result content part on a user message")
	default:
		return geminiContent{}, api.NewTranslationError("google",
			fmt.Sprintf("unsupported role %q", msg.Role))
	}

	parts := make([]geminiPart, 0, len(msg.Parts()))
	for _, part := range msg.Parts() {
		switch part.Type {
		case api.PartText:
			parts = append(parts, geminiPart{Text: part.Text})
		case api.PartImage:
			inline, err := parseInlineData(part.URL)
			if err != nil {
				return geminiContent{}, err
			}
			parts = append(parts, geminiPart{InlineData: inline})
		case api.PartToolCall:
			// The call id does not survive translation; the wire format has
			// no field for it.
			parts = append(parts, geminiPart{FunctionCall: &geminiFunctionCall{
				Name: part.Name,
				Args: part.Arguments,
			}})
		case api.PartToolResult:
			parts = append(parts, geminiPart{FunctionResponse: toolResultResponse(part)})
		default:
			return geminiContent{}, api.NewTranslationError("google",
				fmt.Sprintf("unsupported content part type %q", part.Type))
		}
	}

	return geminiContent{Role: role, Parts: parts}, nil
}

// toolResultResponse recovers a function name for a tool result. The wire
// format carries no call id, so the name is read from a conventional "name"
// field inside the result payload and falls back to "unknown". A "result"
// field, when present, replaces the full payload as the response body.
func toolResultResponse(part api.ContentPart) *geminiFunctionResponse {
	name := "unknown"
	response := part.Content

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(part.Content, &payload); err == nil {
		if raw, ok := payload["name"]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				name = s
			}
		}
		if raw, ok := payload["result"]; ok {
			response = raw
		}
	}
	if name == "unknown" {
		debug.Log("providers", "google: tool result without recoverable function name",
			"tool_call_id", part.ToolCallID)
	}
	return &geminiFunctionResponse{Name: name, Response: response}
}

// parseInlineData splits a base64 data URL into mime type and payload. The
// vendor cannot fetch remote images, so bare URLs are rejected.
func parseInlineData(url string) (*geminiInlineData, error) {
	if !strings.HasPrefix(url, "data:") {
		return nil, api.NewTranslationError("google",
			fmt.Sprintf("image must be a base64 data URL, got %q", debug.Truncate(url, 64)))
	}
	header, data, found := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !found {
		return nil, api.NewTranslationError("google", "malformed data URL: missing comma separator")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, api.NewTranslationError("google", "data URL must be base64 encoded")
	}
	return &geminiInlineData{MimeType: mimeType, Data: data}, nil
}
