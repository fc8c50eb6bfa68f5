package main

import (
	"context"
	"fmt"
	"time"

	"github.com/modelmux/modelmux/pkg/config"
	"github.com/modelmux/modelmux/pkg/provider"
)

// ModelsCmd lists the models each configured provider offers.
type ModelsCmd struct {
	Timeout time.Duration `help:"Request timeout." default:"30s"`
}

func (c *ModelsCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	registry, err := provider.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	for _, name := range registry.List() {
		p, err := registry.Get(name)
		if err != nil {
			return err
		}
		models, err := p.ListModels(ctx)
		if err != nil {
			fmt.Printf("%s: %v\n", name, err)
			continue
		}
		for _, model := range models {
			fmt.Printf("%s:%s\n", name, model)
		}
	}
	return nil
}
