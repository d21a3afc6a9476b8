package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/sheet"
)

// RelatedResult is the outcome of patching one DOI's related items.
type RelatedResult struct {
	DOI       string
	Simulated bool
	Err       error
}

// RelatedSummary aggregates related-item update results.
type RelatedSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []RelatedResult
}

// UpdateRelated patches a relatedItems block into each DOI. Rows keyed
// by normalized DOI provide per-row overrides; DOIs without a row get
// the configured defaults. DOIs are processed in sorted order.
func (e *PublishEngine) UpdateRelated(ctx context.Context, dois map[string]sheet.Row, defaults shared.RelatedItemConfig, progress chan<- ProgressUpdate) (*RelatedSummary, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrInvalidConfig)
	}

	ordered := make([]string, 0, len(dois))
	for doi := range dois {
		ordered = append(ordered, doi)
	}
	sort.Strings(ordered)

	summary := &RelatedSummary{Total: len(ordered)}
	for i, doi := range ordered {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		item := buildRelatedItem(dois[doi], defaults)
		e.sendProgress(progress, patchRelatedUpdate(i+1, len(ordered), doi))

		res := RelatedResult{DOI: doi, Simulated: e.client.DryRun()}
		if err := e.client.Patch(ctx, doi, datacite.Attributes{RelatedItems: []datacite.RelatedItem{item}}); err != nil {
			res.Err = err
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, res)
	}

	return summary, nil
}

// buildRelatedItem constructs the related item from row columns, falling
// back to the configured defaults per field.
func buildRelatedItem(row sheet.Row, defaults shared.RelatedItemConfig) datacite.RelatedItem {
	pick := func(def string, keys ...string) string {
		for _, k := range keys {
			if v := row.Get(k); v != "" {
				return v
			}
		}
		return def
	}

	return datacite.RelatedItem{
		Titles:          []datacite.Title{{Title: pick(defaults.Title, "related_title", "Related_Title")}},
		RelationType:    pick(defaults.RelationType, "related_relationType", "related_relationtype"),
		PublicationYear: pick(defaults.PublicationYear, "related_publication_year", "related_publicationYear"),
		RelatedItemType: pick(defaults.ItemType, "related_item_type", "relatedItemType"),
		RelatedItemIdentifier: datacite.RelatedItemIdentifier{
			RelatedItemIdentifier:     pick(defaults.Identifier, "related_url", "relatedItemIdentifier"),
			RelatedItemIdentifierType: pick(defaults.IdentifierType, "related_identifier_type", "relatedItemIdentifierType"),
		},
	}
}
