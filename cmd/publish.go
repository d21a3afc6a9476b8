package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/sheet"
	"github.com/phenomics-au/doimint/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Publish reads the spreadsheet and registers a DOI per row. A non-nil
// error (and hence a non-zero exit) is returned when any row fails or
// is skipped.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file (a .xlsx or .csv path)", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)

	event := strings.ToLower(strings.TrimSpace(cmd.String("event")))
	if !datacite.ValidEvent(event) {
		return fmt.Errorf("%w: event %q (want draft, publish or register)", shared.ErrInvalidArgument, cmd.String("event"))
	}

	client, err := r.newClient(cmd, config)
	if err != nil {
		return err
	}

	if cmd.Bool("preflight") {
		return r.runPreflight(ctx, client)
	}

	logger := shared.WithLogger(r.logger, "command", "publish")

	s, err := sheet.Read(path)
	if err != nil {
		return err
	}
	logger.Info("read spreadsheet", "path", path, "rows", len(s.Rows))

	opts := tasks.RunOptions{
		Event:             event,
		Prefix:            strings.TrimSpace(cmd.String("prefix")),
		AppendSuffixToURL: cmd.Bool("append-suffix-to-url"),
		Publisher:         publisherFromConfig(config),
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.RowDone {
				continue
			}
			logger.Info(update.Message)
		}
	}()

	engine := tasks.NewPublishEngine(client)
	summary, err := engine.Publish(ctx, s, opts, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	// Row lines render from the summary. Progress updates are advisory
	// and may be dropped under a slow consumer.
	for _, res := range summary.Results {
		if err := r.writePlain("%s\n", r.printer.RowLine(res)); err != nil {
			return err
		}
	}
	r.writePlain("%s", r.printer.Summary(summary))

	if cmd.Bool("write-back") && !client.DryRun() {
		if err := r.writeBack(s, summary, cmd.Bool("no-backup")); err != nil {
			return err
		}
	}

	if bad := summary.Failed + summary.Skipped; bad > 0 {
		return fmt.Errorf("%d of %d rows were not registered", bad, summary.Total)
	}

	return nil
}

// runPreflight checks credentials with a read-only request and exits
// without touching any row.
func (r *Runner) runPreflight(ctx context.Context, client *datacite.Client) error {
	if client.DryRun() {
		return r.writePlainln("Dry run: skipping credential check")
	}
	if err := client.Preflight(ctx); err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	return r.writePlainln("Credentials accepted")
}

// writeBack records minted DOIs in the source spreadsheet. Simulated
// results never reach the file.
func (r *Runner) writeBack(s *sheet.Sheet, summary *tasks.RunSummary, noBackup bool) error {
	dois := summary.MintedDOIs()
	if len(dois) == 0 {
		r.logger.Info("no minted DOIs to write back")
		return nil
	}

	backup, err := s.WriteBack(dois, noBackup)
	if err != nil {
		return fmt.Errorf("failed to write DOIs back to %s: %w", s.Path, err)
	}
	if backup != "" {
		r.logger.Info("wrote minted DOIs", "path", s.Path, "count", len(dois), "backup", backup)
	} else {
		r.logger.Info("wrote minted DOIs", "path", s.Path, "count", len(dois))
	}
	return nil
}

func publisherFromConfig(config *shared.Config) datacite.Publisher {
	return datacite.Publisher{
		Name:                      config.Publisher.Name,
		SchemeURI:                 config.Publisher.SchemeURI,
		PublisherIdentifier:       config.Publisher.Identifier,
		PublisherIdentifierScheme: config.Publisher.Scheme,
		Lang:                      config.Publisher.Lang,
	}
}
