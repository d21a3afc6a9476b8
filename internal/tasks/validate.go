package tasks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
	"github.com/phenomics-au/doimint/internal/sheet"
)

var requiredFields = []string{"title", "Creator", "Publisher", "publication_year", "url"}

// buildAttributes validates a row and maps it onto a DataCite attribute
// block. Optional enrichment columns (Creator_ROR, Contrib_name,
// Contrib_ORCID) are carried through when present.
func buildAttributes(row sheet.Row, opts RunOptions) (datacite.Attributes, error) {
	var missing []string
	for _, field := range requiredFields {
		if row.Get(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return datacite.Attributes{}, fmt.Errorf("%w: missing required fields: %s", shared.ErrValidation, strings.Join(missing, ", "))
	}

	year, err := strconv.Atoi(row.Get("publication_year"))
	if err != nil {
		return datacite.Attributes{}, fmt.Errorf("%w: publication_year %q is not an integer", shared.ErrValidation, row.Get("publication_year"))
	}

	creator := datacite.Creator{
		Name:     row.Get("Creator"),
		NameType: "Organizational",
	}
	if ror := row.Get("Creator_ROR"); ror != "" {
		creator.Affiliation = []datacite.Affiliation{{
			AffiliationIdentifier:       ror,
			AffiliationIdentifierScheme: "ROR",
		}}
	}

	attrs := datacite.Attributes{
		Event:           opts.Event,
		Titles:          []datacite.Title{{Title: row.Get("title")}},
		Creators:        []datacite.Creator{creator},
		PublicationYear: year,
		Types:           &datacite.Types{ResourceTypeGeneral: "Award"},
		URL:             row.Get("url"),
	}

	// Publisher name comes from the row; the organisation identifier
	// comes from configuration when present.
	publisher := opts.Publisher
	publisher.Name = row.Get("Publisher")
	attrs.Publisher = &publisher

	if name, orcid := row.Get("Contrib_name"), row.Get("Contrib_ORCID"); name != "" || orcid != "" {
		contrib := datacite.Contributor{
			Name:            name,
			NameType:        "Personal",
			ContributorType: "Researcher",
		}
		if orcid != "" {
			contrib.NameIdentifiers = []datacite.NameIdentifier{{NameIdentifier: orcid}}
		}
		attrs.Contributors = []datacite.Contributor{contrib}
	}

	// An explicit DOI pins the identifier; a blank one asks the server
	// to mint a suffix under the configured prefix.
	if doi := datacite.NormalizeDOI(row.Get("doi")); doi != "" {
		attrs.DOI = doi
	} else {
		if opts.Prefix == "" {
			return datacite.Attributes{}, fmt.Errorf("%w: row %d", shared.ErrMissingPrefix, row.Line)
		}
		attrs.Prefix = opts.Prefix
	}

	return attrs, nil
}
