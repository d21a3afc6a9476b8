package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if level, err := log.ParseLevel(os.Getenv("DOIMINT_LOG_LEVEL")); err == nil {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config: loadStartupConfig(logger),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "doimint",
		Usage:    "Create and update DataCite DOIs from a spreadsheet",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}

// loadStartupConfig reads config.toml from the working directory when
// present, falling back to the embedded defaults.
func loadStartupConfig(logger *log.Logger) *shared.Config {
	if _, err := os.Stat("config.toml"); err != nil {
		return shared.DefaultConfig()
	}

	config, err := shared.LoadConfig("config.toml")
	if err != nil {
		logger.Warn("falling back to defaults", "config", "config.toml", "error", err)
		return shared.DefaultConfig()
	}
	return config
}
