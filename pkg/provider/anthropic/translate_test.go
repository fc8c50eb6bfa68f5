package anthropic

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelmux/modelmux/pkg/api"
)

func TestTranslateRequest_SystemExtraction(t *testing.T) {
	req := api.NewGenerateRequest("claude-sonnet-4-5",
		api.NewMessage(api.RoleSystem, "Be terse."),
		api.NewMessage(api.RoleUser, "Hello"),
		api.NewMessage(api.RoleSystem, "Answer in French."),
	)

	wire, err := translateRequest(req, false)
	if err != nil {
		t.Fatalf("translateRequest: %v", err)
	}

	if wire.System != "Be terse.\n\nAnswer in French." {
		t.Errorf("system = %q, want concatenated system messages", wire.System)
	}
	if len(wire.Messages) != 1 {
		t.Fatalf("messages = %d, want 1 (system messages removed)", len(wire.Messages))
	}
	if wire.Messages[0].Role != "user" {
		t.Errorf("role = %q, want user", wire.Messages[0].Role)
	}
	if wire.Messages[0].Content != "Hello" {
		t.Errorf("content = %v, want plain string", wire.Messages[0].Content)
	}
}

func TestTranslateRequest_ToolRoleRejected(t *testing.T) {
	req := api.NewGenerateRequest("claude-sonnet-4-5",
		api.NewMessage(api.RoleTool, "result"),
	)

	_, err := translateRequest(req, false)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrTranslation {
		t.Fatalf("err = %v, want translation error", err)
	}
}

func TestInferMaxTokens(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"claude-opus-4-5", 64000},
		{"claude-sonnet-4", 64000},
		{"claude-haiku-4-5", 64000},
		{"claude-opus-4", 32000},
		{"claude-3-5-sonnet", 8192},
		{"claude-3-opus", 4096},
	}
	for _, tt := range tests {
		if got := inferMaxTokens(tt.model); got != tt.want {
			t.Errorf("inferMaxTokens(%q) = %d, want %d", tt.model, got, tt.want)
		}
	}
}

func TestTranslateRequest_MaxTokens(t *testing.T) {
	req := api.NewGenerateRequest("claude-3-opus", api.NewMessage(api.RoleUser, "hi"))

	wire, err := translateRequest(req, false)
	if err != nil {
		t.Fatalf("translateRequest: %v", err)
	}
	if wire.MaxTokens != 4096 {
		t.Errorf("inferred max_tokens = %d, want 4096", wire.MaxTokens)
	}

	limit := 100
	req.Options.MaxTokens = &limit
	wire, err = translateRequest(req, false)
	if err != nil {
		t.Fatalf("translateRequest: %v", err)
	}
	if wire.MaxTokens != 100 {
		t.Errorf("explicit max_tokens = %d, want 100", wire.MaxTokens)
	}
}

func TestTranslateRequest_Tools(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`)
	req := api.NewGenerateRequest("claude-sonnet-4-5", api.NewMessage(api.RoleUser, "weather?"))
	req.Options.Tools = []api.Tool{api.FunctionTool("get_weather", "Current weather", schema)}
	req.Options.ToolChoice = &api.ToolChoice{Mode: api.ToolChoiceRequired, Name: "get_weather"}

	wire, err := translateRequest(req, false)
	if err != nil {
		t.Fatalf("translateRequest: %v", err)
	}

	if len(wire.Tools) != 1 {
		t.Fatalf("tools = %d, want 1", len(wire.Tools))
	}
	if wire.Tools[0].Name != "get_weather" {
		t.Errorf("tool name = %q", wire.Tools[0].Name)
	}
	if string(wire.Tools[0].InputSchema) != string(schema) {
		t.Errorf("input_schema not carried verbatim: %s", wire.Tools[0].InputSchema)
	}
	if wire.ToolChoice["type"] != "tool" || wire.ToolChoice["name"] != "get_weather" {
		t.Errorf("tool_choice = %v, want forced tool", wire.ToolChoice)
	}
}

func TestTranslateContent_MultiPart(t *testing.T) {
	content := api.PartsContent(
		api.TextPart("What is in this image?"),
		api.ImagePart("data:image/png;base64,iVBORw0KG"),
	)

	out, err := translateContent(content)
	if err != nil {
		t.Fatalf("translateContent: %v", err)
	}
	blocks, ok := out.([]anthropicBlock)
	if !ok {
		t.Fatalf("content type = %T, want []anthropicBlock", out)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[1].Type != "image" || blocks[1].Source == nil {
		t.Fatalf("second block = %+v, want image with source", blocks[1])
	}
	if blocks[1].Source.MediaType != "image/png" || blocks[1].Source.Data != "iVBORw0KG" {
		t.Errorf("source = %+v, want parsed data URL", blocks[1].Source)
	}
}

func TestTranslateContent_SingleTextPartCollapses(t *testing.T) {
	out, err := translateContent(api.PartsContent(api.TextPart("just text")))
	if err != nil {
		t.Fatalf("translateContent: %v", err)
	}
	if out != "just text" {
		t.Errorf("content = %v (%T), want bare string", out, out)
	}
}

func TestParseImageSource(t *testing.T) {
	source, err := parseImageSource("data:image/jpeg;base64,/9j/4AAQ")
	if err != nil {
		t.Fatalf("parseImageSource: %v", err)
	}
	if source.MediaType != "image/jpeg" || source.Data != "/9j/4AAQ" {
		t.Errorf("source = %+v", source)
	}

	for _, bad := range []string{
		"https://example.com/cat.png",
		"data:image/png,notbase64",
		"data:image/png;base64",
	} {
		_, err := parseImageSource(bad)
		var apiErr *api.Error
		if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrTranslation {
			t.Errorf("parseImageSource(%q) err = %v, want translation error", bad, err)
		}
	}
}

func TestTranslateContent_ToolHistory(t *testing.T) {
	content := api.PartsContent(
		api.ToolCallPart("toolu_01", "get_weather", json.RawMessage(`{"city":"Berlin"}`)),
		api.ToolResultPart("toolu_01", json.RawMessage(`{"temp":21}`)),
	)

	out, err := translateContent(content)
	if err != nil {
		t.Fatalf("translateContent: %v", err)
	}
	blocks := out.([]anthropicBlock)
	if blocks[0].Type != "tool_use" || blocks[0].ID != "toolu_01" {
		t.Errorf("first block = %+v, want tool_use", blocks[0])
	}
	if blocks[1].Type != "tool_result" || blocks[1].ToolUseID != "toolu_01" {
		t.Errorf("second block = %+v, want tool_result", blocks[1])
	}
}

func TestTranslateRequest_WireShape(t *testing.T) {
	temp := 0.7
	req := api.NewGenerateRequest("claude-sonnet-4-5", api.NewMessage(api.RoleUser, "hi"))
	req.Options.Temperature = &temp
	req.Options.StopSequences = []string{"END"}

	wire, err := translateRequest(req, true)
	if err != nil {
		t.Fatalf("translateRequest: %v", err)
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, want := range []string{
		`"model":"claude-sonnet-4-5"`,
		`"max_tokens":64000`,
		`"temperature":0.7`,
		`"stop_sequences":["END"]`,
		`"stream":true`,
	} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("payload missing %s: %s", want, payload)
		}
	}
	if strings.Contains(string(payload), `"system"`) {
		t.Errorf("empty system field should be omitted: %s", payload)
	}
}
