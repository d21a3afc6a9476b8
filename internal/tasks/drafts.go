package tasks

import (
	"context"
	"fmt"

	"github.com/phenomics-au/doimint/internal/shared"
)

// CleanupResult is the outcome of processing one DOI during draft cleanup.
type CleanupResult struct {
	DOI       string
	State     string // state reported by the API before any action
	Deleted   bool
	Simulated bool
	Err       error
}

// CleanupSummary aggregates draft cleanup results.
type CleanupSummary struct {
	Total   int
	Deleted int
	Skipped int
	Failed  int
	Results []CleanupResult
}

// FetchDrafts lists the repository's DOIs and returns those currently in
// the draft state.
func (e *PublishEngine) FetchDrafts(ctx context.Context) ([]string, error) {
	resources, err := e.client.List(ctx)
	if err != nil {
		return nil, err
	}

	var drafts []string
	for _, res := range resources {
		if res.Attributes.State != "draft" {
			continue
		}
		if doi := res.ID; doi != "" {
			drafts = append(drafts, doi)
		} else if res.Attributes.DOI != "" {
			drafts = append(drafts, res.Attributes.DOI)
		}
	}
	return drafts, nil
}

// DeleteDrafts deletes each listed DOI, but only after verifying via GET
// that its state is still draft. Registered or findable DOIs are never
// touched. In dry-run mode the deletes are simulated.
func (e *PublishEngine) DeleteDrafts(ctx context.Context, dois []string, progress chan<- ProgressUpdate) (*CleanupSummary, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrInvalidConfig)
	}

	summary := &CleanupSummary{Total: len(dois)}
	for i, doi := range dois {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		res := CleanupResult{DOI: doi}
		e.sendProgress(progress, fetchDOIUpdate(i+1, len(dois), doi))

		meta, err := e.client.Get(ctx, doi)
		if err != nil {
			res.Err = fmt.Errorf("cannot retrieve metadata: %w", err)
			summary.Skipped++
			summary.Results = append(summary.Results, res)
			continue
		}

		res.State = meta.Attributes.State
		if res.State != "draft" {
			summary.Skipped++
			summary.Results = append(summary.Results, res)
			continue
		}

		e.sendProgress(progress, deleteDOIUpdate(i+1, len(dois), doi))
		if err := e.client.Delete(ctx, doi); err != nil {
			res.Err = err
			summary.Failed++
			summary.Results = append(summary.Results, res)
			continue
		}

		res.Deleted = true
		res.Simulated = e.client.DryRun()
		summary.Deleted++
		summary.Results = append(summary.Results, res)
	}

	return summary, nil
}
