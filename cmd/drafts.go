package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/tasks"
	"github.com/urfave/cli/v3"
)

// DraftsDelete removes draft DOIs. The targets come from --dois-file or,
// with --fetch, from the repository's own draft listing. Each DOI is
// re-checked before deletion so findable DOIs are never touched.
func (r *Runner) DraftsDelete(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	client, err := r.newClient(cmd, config)
	if err != nil {
		return err
	}
	engine := tasks.NewPublishEngine(client)
	logger := shared.WithLogger(r.logger, "command", "drafts delete")

	var dois []string
	switch {
	case cmd.Bool("fetch"):
		dois, err = engine.FetchDrafts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch draft DOIs: %w", err)
		}
		logger.Info("fetched draft DOIs", "count", len(dois))
	case cmd.String("dois-file") != "":
		dois, err = readDOIList(cmd.String("dois-file"))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: provide --dois-file or --fetch", shared.ErrMissingArgument)
	}

	if len(dois) == 0 {
		return r.writePlainln("No draft DOIs to delete")
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			logger.Info(update.Message)
		}
	}()

	summary, err := engine.DeleteDrafts(ctx, dois, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, res := range summary.Results {
		if err := r.writePlain("%s\n", r.printer.CleanupLine(res)); err != nil {
			return err
		}
	}
	r.writePlain("%s", r.printer.CleanupSummary(summary))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d DOIs could not be deleted", summary.Failed, summary.Total)
	}

	return nil
}

// readDOIList reads one DOI per line, skipping blanks and # comments.
// Resolver URLs are normalized to bare DOIs.
func readDOIList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRead, err)
	}

	var dois []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dois = append(dois, datacite.NormalizeDOI(line))
	}
	return dois, nil
}
