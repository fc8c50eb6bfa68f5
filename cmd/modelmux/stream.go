package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelmux/modelmux/pkg/api"
)

// StreamCmd sends a prompt and prints the reply incrementally.
type StreamCmd struct {
	Prompt    string   `arg:"" help:"User prompt to send."`
	Model     string   `help:"Model to use, optionally vendor-prefixed." short:"m"`
	System    string   `help:"System prompt." short:"s"`
	MaxTokens int      `help:"Completion token cap."`
	Tools     []string `name:"tool" help:"Expose a tool as name:description (repeatable)."`
}

func (c *StreamCmd) Run(cli *CLI) error {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := p.Stream(ctx, req)
	if err != nil {
		return err
	}

	for ev := range events {
		switch ev.Type {
		case api.EventTextDelta:
			fmt.Print(ev.Delta)
		case api.EventToolCallStart:
			fmt.Fprintf(os.Stderr, "\ntool call %s: %s(", ev.ID, ev.Name)
		case api.EventToolCallDelta:
			fmt.Fprint(os.Stderr, ev.Delta)
		case api.EventToolCallEnd:
			fmt.Fprintf(os.Stderr, "\ntool call %s: %s(%s)\n", ev.ID, ev.Name, ev.Arguments)
		case api.EventFinish:
			fmt.Println()
			fmt.Fprintf(os.Stderr, "finish=%s tokens=%d/%d/%d\n",
				ev.Reason, ev.Usage.PromptTokens, ev.Usage.CompletionTokens, ev.Usage.TotalTokens)
		case api.EventError:
			fmt.Println()
			return ev.Err
		}
	}
	return nil
}
