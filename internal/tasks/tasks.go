// package tasks implements the row-by-row DOI registration pipeline.
//
// The core abstraction is PublishEngine, which validates spreadsheet
// rows, builds DataCite payloads, issues the API calls and accumulates
// per-row results. Operations emit progress updates via channels for
// non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/sheet"
)

// Registrar defines the API surface the engine needs from the DataCite
// client. The abstraction keeps the engine testable without a network.
type Registrar interface {
	Create(ctx context.Context, attrs datacite.Attributes) (*datacite.RegisterResult, error)
	Update(ctx context.Context, doi string, attrs datacite.Attributes) (*datacite.RegisterResult, error)
	Patch(ctx context.Context, doi string, attrs datacite.Attributes) error
	PatchURL(ctx context.Context, doi, url string) error
	Get(ctx context.Context, doi string) (*datacite.Resource, error)
	Delete(ctx context.Context, doi string) error
	List(ctx context.Context) ([]datacite.Resource, error)
	DryRun() bool
}

// RunOptions is the immutable per-run configuration handed to the engine.
type RunOptions struct {
	Event             string             // draft, publish or register
	Prefix            string             // repository prefix for rows with a blank doi
	AppendSuffixToURL bool               // append the DOI suffix to the landing page URL
	Publisher         datacite.Publisher // publisher identity placed on every payload
}

// RowState is the terminal state of a processed row.
type RowState int

const (
	RowSucceeded RowState = iota
	RowFailed
	RowSkipped
)

// RowResult is the outcome of processing a single spreadsheet row.
type RowResult struct {
	Line      int      // spreadsheet line number
	Title     string   // row title, for reporting
	State     RowState // terminal state
	DOI       string   // resulting DOI (existing or minted), if any
	Simulated bool     // true when the request was simulated (dry-run)
	Err       error    // validation or API error for failed/skipped rows
	PatchErr  error    // corrective PATCH failure; the row still succeeded
}

// RunSummary aggregates all row results for a publish run.
type RunSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Results   []RowResult
}

func (s *RunSummary) add(res RowResult) {
	s.Results = append(s.Results, res)
	switch res.State {
	case RowSucceeded:
		s.Succeeded++
	case RowFailed:
		s.Failed++
	case RowSkipped:
		s.Skipped++
	}
}

// MintedDOIs returns resulting DOIs keyed by spreadsheet line, for
// write-back. Simulated results are excluded.
func (s *RunSummary) MintedDOIs() map[int]string {
	dois := make(map[int]string)
	for _, res := range s.Results {
		if res.State == RowSucceeded && !res.Simulated && res.DOI != "" {
			dois[res.Line] = res.DOI
		}
	}
	return dois
}

// PublishEngine implements the registration pipeline on top of a
// Registrar.
type PublishEngine struct {
	client Registrar
}

// NewPublishEngine creates a PublishEngine backed by the given client.
func NewPublishEngine(client Registrar) *PublishEngine {
	return &PublishEngine{client: client}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PublishEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Publish processes every row of the sheet in order. A row failure is
// recorded and processing continues; the only fail-fast condition is a
// blank doi with no configured prefix, which aborts before any request
// is issued.
func (e *PublishEngine) Publish(ctx context.Context, s *sheet.Sheet, opts RunOptions, progress chan<- ProgressUpdate) (*RunSummary, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrInvalidConfig)
	}

	if opts.Prefix == "" {
		for _, row := range s.Rows {
			if datacite.NormalizeDOI(row.Get("doi")) == "" {
				return nil, fmt.Errorf("%w: row %d (add --prefix, e.g. 10.5072, to mint suffixes)", shared.ErrMissingPrefix, row.Line)
			}
		}
	}

	summary := &RunSummary{Total: len(s.Rows)}
	for i, row := range s.Rows {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		res := e.publishRow(ctx, row, opts, i+1, len(s.Rows), progress)
		summary.add(res)
		e.sendProgress(progress, rowDoneUpdate(i+1, len(s.Rows), res))
	}

	return summary, nil
}

func (e *PublishEngine) publishRow(ctx context.Context, row sheet.Row, opts RunOptions, step, total int, progress chan<- ProgressUpdate) RowResult {
	result := RowResult{Line: row.Line, Title: row.Get("title")}

	attrs, err := buildAttributes(row, opts)
	if err != nil {
		result.State = RowSkipped
		result.Err = err
		return result
	}

	baseURL := attrs.URL
	doiKnown := attrs.DOI != ""

	// DOI known up front: the suffix goes into the URL before the request.
	if opts.AppendSuffixToURL && doiKnown {
		if suffix := datacite.Suffix(attrs.DOI); suffix != "" {
			attrs.URL = datacite.AppendSuffix(baseURL, datacite.FullSuffix(suffix))
		}
	}

	e.sendProgress(progress, sendRequestUpdate(step, total, result.Title, doiKnown))

	var reg *datacite.RegisterResult
	if doiKnown {
		reg, err = e.client.Update(ctx, attrs.DOI, attrs)
	} else {
		reg, err = e.client.Create(ctx, attrs)
	}
	if err != nil {
		result.State = RowFailed
		result.Err = err
		return result
	}

	result.DOI = reg.DOI
	result.Simulated = reg.Simulated
	result.State = RowSucceeded

	// DOI minted server-side: a second corrective request carries the
	// suffix into the URL.
	if opts.AppendSuffixToURL && !doiKnown && !reg.Simulated && reg.DOI != "" {
		if suffix := datacite.Suffix(reg.DOI); suffix != "" {
			updated := datacite.AppendSuffix(baseURL, datacite.FullSuffix(suffix))
			e.sendProgress(progress, patchURLUpdate(step, total, reg.DOI))
			if err := e.client.PatchURL(ctx, reg.DOI, updated); err != nil {
				result.PatchErr = err
			}
		}
	}

	return result
}
