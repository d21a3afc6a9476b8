package main

import (
	"context"

	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration to the given path, or
// config.toml by default.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	return r.writePlainln("Wrote %s; fill in the [auth] table before publishing", path)
}
