package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelmux/modelmux/pkg/api"
	"github.com/modelmux/modelmux/pkg/config"
	"github.com/modelmux/modelmux/pkg/provider"
)

// GenerateCmd sends a single prompt and prints the complete reply.
type GenerateCmd struct {
	Prompt    string        `arg:"" help:"User prompt to send."`
	Model     string        `help:"Model to use, optionally vendor-prefixed (e.g. anthropic:claude-sonnet-4-5)." short:"m"`
	System    string        `help:"System prompt." short:"s"`
	MaxTokens int           `help:"Completion token cap."`
	Tools     []string      `name:"tool" help:"Expose a tool as name:description (repeatable)."`
	Timeout   time.Duration `help:"Request timeout." default:"2m"`
}

func (c *GenerateCmd) Run(cli *CLI) error {
	registry, model, err := setup(cli, c.Model)
	if err != nil {
		return err
	}
	defer registry.Close()

	p, localModel, err := registry.Resolve(model)
	if err != nil {
		return err
	}

	req, err := buildRequest(localModel, c.System, c.Prompt, c.MaxTokens, c.Tools)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(resp.Text())
	for _, call := range resp.ToolCalls() {
		fmt.Printf("tool call %s: %s(%s)\n", call.ID, call.Name, call.Arguments)
	}
	fmt.Fprintf(os.Stderr, "finish=%s tokens=%d/%d/%d\n",
		resp.FinishReason, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return nil
}

// setup loads configuration, builds the registry and picks the model.
func setup(cli *CLI, model string) (*provider.Registry, string, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, "", err
	}
	registry, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, "", err
	}
	if model == "" {
		model = cfg.DefaultModel
	}
	if model == "" {
		registry.Close()
		return nil, "", api.NewConfigError("no model given and no default_model configured")
	}
	return registry, model, nil
}

func buildRequest(model, system, prompt string, maxTokens int, tools []string) (*api.GenerateRequest, error) {
	var messages []api.Message
	if system != "" {
		messages = append(messages, api.NewMessage(api.RoleSystem, system))
	}
	messages = append(messages, api.NewMessage(api.RoleUser, prompt))

	req := api.NewGenerateRequest(model, messages...)
	if maxTokens > 0 {
		req.Options.MaxTokens = &maxTokens
	}
	for _, def := range tools {
		name, description, _ := strings.Cut(def, ":")
		if name == "" {
			return nil, api.NewConfigError("tool definition needs a name: " + def)
		}
		req.Options.Tools = append(req.Options.Tools,
			api.FunctionTool(name, description, json.RawMessage(`{"type":"object"}`)))
	}
	return req, nil
}
