// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// publishCommand creates or updates DOIs from a spreadsheet.
func publishCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"pub"},
		Usage:   "Create or update DOIs from a .xlsx or .csv file",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:    "auth",
				Aliases: []string{"a"},
				Usage:   "DataCite repository credentials as repo_id:password",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "DataCite DOIs endpoint (test or production)",
			},
			&cli.StringFlag{
				Name:  "user-agent",
				Usage: "User-Agent header for API requests",
			},
			&cli.StringFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "DOI prefix for rows without a doi value (e.g. 10.5072)",
			},
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Lifecycle event: draft, publish, or register",
				Value:   "draft",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Report what would happen without calling the API",
			},
			&cli.BoolFlag{
				Name:  "append-suffix-to-url",
				Usage: "Append the DOI suffix to each landing page URL",
			},
			&cli.BoolFlag{
				Name:  "preflight",
				Usage: "Check credentials against the API and exit",
			},
			&cli.BoolFlag{
				Name:  "write-back",
				Usage: "Write minted DOIs back into the spreadsheet",
			},
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "Skip the backup copy when writing back",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Request timeout in seconds",
			},
		},
		Action: r.Publish,
	}
}

// draftsCommand handles draft DOI cleanup.
func draftsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "Manage draft DOIs",
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Delete draft DOIs listed in a file or fetched from the repository",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
					},
					&cli.StringFlag{
						Name:    "auth",
						Aliases: []string{"a"},
						Usage:   "DataCite repository credentials as repo_id:password",
					},
					&cli.StringFlag{
						Name:  "api-url",
						Usage: "DataCite DOIs endpoint (test or production)",
					},
					&cli.StringFlag{
						Name:  "user-agent",
						Usage: "User-Agent header for API requests",
					},
					&cli.StringFlag{
						Name:  "dois-file",
						Usage: "File with one DOI per line",
					},
					&cli.BoolFlag{
						Name:  "fetch",
						Usage: "Fetch the repository's draft DOIs instead of reading a file",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Usage:   "Report what would happen without deleting anything",
					},
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Request timeout in seconds",
					},
				},
				Action: r.DraftsDelete,
			},
		},
	}
}

// relatedCommand handles related-item metadata updates.
func relatedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "related",
		Usage: "Update related-item metadata on existing DOIs",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Patch a related item onto each DOI in a spreadsheet",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
					},
					&cli.StringFlag{
						Name:    "auth",
						Aliases: []string{"a"},
						Usage:   "DataCite repository credentials as repo_id:password",
					},
					&cli.StringFlag{
						Name:  "api-url",
						Usage: "DataCite DOIs endpoint (test or production)",
					},
					&cli.StringFlag{
						Name:  "user-agent",
						Usage: "User-Agent header for API requests",
					},
					&cli.BoolFlag{
						Name:  "fetch-existing",
						Usage: "Also update DOIs already registered to the repository",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Usage:   "Report what would happen without calling the API",
					},
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Request timeout in seconds",
					},
				},
				Action: r.RelatedUpdate,
			},
		},
	}
}

// configCommand handles configuration file management.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml to the given path",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
