package main

import (
	"context"
	"fmt"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/sheet"
	"github.com/phenomics-au/doimint/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RelatedUpdate patches a related item onto existing DOIs. Targets come
// from the file's doi column; --fetch-existing adds every DOI already
// registered to the repository, with the file's rows providing per-DOI
// overrides where present.
func (r *Runner) RelatedUpdate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" && !cmd.Bool("fetch-existing") {
		return fmt.Errorf("%w: file (or pass --fetch-existing)", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd)

	client, err := r.newClient(cmd, config)
	if err != nil {
		return err
	}
	engine := tasks.NewPublishEngine(client)
	logger := shared.WithLogger(r.logger, "command", "related update")

	targets := make(map[string]sheet.Row)
	if path != "" {
		s, err := sheet.ReadColumns(path, []string{"doi"})
		if err != nil {
			return err
		}
		for _, row := range s.Rows {
			doi := datacite.NormalizeDOI(row.Get("doi"))
			if doi == "" {
				logger.Warn("row has no doi, skipping", "line", row.Line)
				continue
			}
			targets[doi] = row
		}
		logger.Info("read spreadsheet", "path", path, "dois", len(targets))
	}

	if cmd.Bool("fetch-existing") {
		resources, err := client.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list repository DOIs: %w", err)
		}
		added := 0
		for _, res := range resources {
			doi := res.ID
			if doi == "" {
				doi = res.Attributes.DOI
			}
			if doi == "" {
				continue
			}
			if _, ok := targets[doi]; !ok {
				targets[doi] = sheet.Row{}
				added++
			}
		}
		logger.Info("fetched repository DOIs", "added", added)
	}

	if len(targets) == 0 {
		return r.writePlainln("No DOIs to update")
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			logger.Info(update.Message)
		}
	}()

	summary, err := engine.UpdateRelated(ctx, targets, config.RelatedItem, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, res := range summary.Results {
		if err := r.writePlain("%s\n", r.printer.RelatedLine(res)); err != nil {
			return err
		}
	}
	r.writePlain("%s", r.printer.RelatedSummary(summary))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d DOIs could not be updated", summary.Failed, summary.Total)
	}

	return nil
}
