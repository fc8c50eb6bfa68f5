package api

import "encoding/json"

// GenerateRequest asks a provider for a completion. Model may carry an
// explicit "vendor:" prefix; the registry strips it before dispatch and the
// adapter sees only the vendor-local model id. A request is immutable input
// to a single call: adapters copy it before patching the model field.
type GenerateRequest struct {
	Model    string          `json:"-"`
	Messages []Message       `json:"messages"`
	Options  GenerateOptions `json:"options,omitempty"`
}

// NewGenerateRequest creates a request with default options.
func NewGenerateRequest(model string, messages ...Message) *GenerateRequest {
	return &GenerateRequest{Model: model, Messages: messages}
}

// GenerateOptions holds the vendor-independent generation parameters.
// Nil pointer fields are omitted from the wire request.
type GenerateOptions struct {
	// Temperature is the sampling temperature (0.0 to 2.0).
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length. Vendors that require the field
	// infer a default from the model name when unset.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// TopP is the nucleus sampling parameter (0.0 to 1.0).
	TopP *float64 `json:"top_p,omitempty"`

	// StopSequences end generation when produced.
	StopSequences []string `json:"stop_sequences,omitempty"`

	// Tools the model may call.
	Tools []Tool `json:"tools,omitempty"`

	// ToolChoice constrains how the model selects tools.
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// FrequencyPenalty and PresencePenalty (-2.0 to 2.0); not every vendor
	// supports them.
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`

	// Headers are caller-supplied HTTP headers merged over the vendor
	// defaults; caller values win on collision.
	Headers Headers `json:"headers,omitempty"`
}

// Tool is a function the model may request to call.
type Tool struct {
	// Type is currently always "function".
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// FunctionTool creates a function tool with a JSON Schema parameter spec.
func FunctionTool(name, description string, parameters json.RawMessage) Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// ToolFunction describes a callable function.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolChoiceMode selects the tool-choice policy.
type ToolChoiceMode string

const (
	// ToolChoiceAuto lets the model decide whether to call tools.
	ToolChoiceAuto ToolChoiceMode = "auto"
	// ToolChoiceNone forbids tool calls.
	ToolChoiceNone ToolChoiceMode = "none"
	// ToolChoiceRequired forces a call to the named tool.
	ToolChoiceRequired ToolChoiceMode = "required"
)

// ToolChoice constrains tool selection. Name is set only for
// ToolChoiceRequired.
type ToolChoice struct {
	Mode ToolChoiceMode `json:"mode"`
	Name string         `json:"name,omitempty"`
}
