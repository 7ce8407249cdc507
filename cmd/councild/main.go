// Command councild is the CLI for the deliberation engine.
//
// Usage:
//
//	councild modes
//	councild run --mode vote --question "..." --fixtures fixtures.json
//	councild serve --config config.yaml
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/councilforge/deliberate/pkg/logger"
)

// CLI defines the command-line interface: run executes a single
// deliberation against a fixture-backed gateway and prints its SSE frame
// stream to stdout; serve starts the HTTP transport; modes lists the mode
// registry.
type CLI struct {
	Run   RunCmd   `cmd:"" help:"Run a single deliberation and print its event stream."`
	Serve ServeCmd `cmd:"" help:"Start the HTTP transport."`
	Modes ModesCmd `cmd:"" help:"List the registered deliberation modes."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	Fixtures  string `help:"Path to a JSON file of canned model replies (see gateway.Static); required since this module has no live model gateway." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose, or custom)." default:"simple"`
}

func main() {
	_ = godotenv.Load()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("councild"),
		kong.Description("deliberate - multi-mode LLM deliberation engine"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", cli.LogLevel, err)
		os.Exit(1)
	}

	output := os.Stderr
	if cli.LogFile != "" {
		f, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = f
	}
	logger.Init(level, output, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
