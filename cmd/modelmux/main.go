// modelmux is a small CLI for exercising the unified provider layer: send a
// prompt to any configured vendor, stream the reply, or list models.
package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/modelmux/modelmux/pkg/debug"
)

// CLI is the top-level command structure.
type CLI struct {
	Config   string `help:"Path to config file." short:"c" type:"path"`
	Debug    string `help:"Debug categories (providers,streaming,config,all)." env:"MODELMUX_DEBUG"`
	LogLevel string `help:"Log level (trace,debug,info,warn,error)." env:"MODELMUX_LOG_LEVEL" default:"info"`

	Generate GenerateCmd `cmd:"" help:"Send a prompt and print the full reply."`
	Stream   StreamCmd   `cmd:"" help:"Send a prompt and print the reply as it streams."`
	Models   ModelsCmd   `cmd:"" help:"List models available per provider."`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("modelmux"),
		kong.Description("Unified client for Anthropic, OpenAI and Gemini APIs"),
		kong.UsageOnError(),
	)

	debug.Init(cli.Debug, cli.LogLevel)

	err := ctx.Run(&cli)
	if err != nil {
		ctx.Errorf("%v", err)
		os.Exit(1)
	}
}
