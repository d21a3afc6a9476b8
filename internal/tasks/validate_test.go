package tasks

import (
	"errors"
	"strings"
	"testing"

	"github.com/phenomics-au/doimint/internal/datacite"
	"github.com/phenomics-au/doimint/internal/shared"
)

func TestBuildAttributes(t *testing.T) {
	opts := RunOptions{
		Event:  "draft",
		Prefix: "10.1234",
		Publisher: datacite.Publisher{
			PublisherIdentifier:       "https://ror.org/0201hm243",
			PublisherIdentifierScheme: "ROR",
		},
	}

	t.Run("maps a complete row", func(t *testing.T) {
		r := validRow(2, "")
		r.Values["Creator_ROR"] = "https://ror.org/0201hm243"
		r.Values["Contrib_name"] = "A Researcher"
		r.Values["Contrib_ORCID"] = "https://orcid.org/0000-0001-2345-6789"

		attrs, err := buildAttributes(r, opts)
		if err != nil {
			t.Fatalf("buildAttributes failed: %v", err)
		}

		if attrs.Event != "draft" {
			t.Errorf("unexpected event: %s", attrs.Event)
		}
		if len(attrs.Titles) != 1 || attrs.Titles[0].Title != "Award 2" {
			t.Errorf("unexpected titles: %+v", attrs.Titles)
		}
		if attrs.PublicationYear != 2024 {
			t.Errorf("unexpected year: %d", attrs.PublicationYear)
		}
		if attrs.Types == nil || attrs.Types.ResourceTypeGeneral != "Award" {
			t.Errorf("unexpected types: %+v", attrs.Types)
		}
		if attrs.Prefix != "10.1234" || attrs.DOI != "" {
			t.Errorf("expected a prefix-only payload, got doi=%q prefix=%q", attrs.DOI, attrs.Prefix)
		}

		creator := attrs.Creators[0]
		if creator.NameType != "Organizational" {
			t.Errorf("unexpected creator name type: %s", creator.NameType)
		}
		if len(creator.Affiliation) != 1 || creator.Affiliation[0].AffiliationIdentifierScheme != "ROR" {
			t.Errorf("unexpected affiliation: %+v", creator.Affiliation)
		}

		if attrs.Publisher.Name != "Phenomics Australia" {
			t.Errorf("expected the row's publisher name, got %s", attrs.Publisher.Name)
		}
		if attrs.Publisher.PublisherIdentifier != "https://ror.org/0201hm243" {
			t.Error("expected the configured publisher identifier")
		}

		contrib := attrs.Contributors[0]
		if contrib.NameType != "Personal" || contrib.ContributorType != "Researcher" {
			t.Errorf("unexpected contributor: %+v", contrib)
		}
		if len(contrib.NameIdentifiers) != 1 {
			t.Error("expected the ORCID as a name identifier")
		}
	})

	t.Run("names every missing field", func(t *testing.T) {
		r := row(2, map[string]string{"title": "Only a title"})

		_, err := buildAttributes(r, opts)
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		for _, field := range []string{"Creator", "Publisher", "publication_year", "url"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("expected %s in the error, got %v", field, err)
			}
		}
	})

	t.Run("non-integer year", func(t *testing.T) {
		r := validRow(2, "")
		r.Values["publication_year"] = "twenty-four"

		_, err := buildAttributes(r, opts)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("resolver URLs in the doi column are normalized", func(t *testing.T) {
		r := validRow(2, "https://doi.org/10.1234/abcd")

		attrs, err := buildAttributes(r, opts)
		if err != nil {
			t.Fatalf("buildAttributes failed: %v", err)
		}
		if attrs.DOI != "10.1234/abcd" {
			t.Errorf("unexpected doi: %s", attrs.DOI)
		}
		if attrs.Prefix != "" {
			t.Error("expected no prefix for a pinned DOI")
		}
	})

	t.Run("blank doi without a prefix", func(t *testing.T) {
		r := validRow(2, "")

		_, err := buildAttributes(r, RunOptions{Event: "draft"})
		if !errors.Is(err, shared.ErrMissingPrefix) {
			t.Errorf("expected ErrMissingPrefix, got %v", err)
		}
	})

	t.Run("no contributor block without contributor columns", func(t *testing.T) {
		attrs, err := buildAttributes(validRow(2, ""), opts)
		if err != nil {
			t.Fatalf("buildAttributes failed: %v", err)
		}
		if attrs.Contributors != nil {
			t.Errorf("expected no contributors, got %+v", attrs.Contributors)
		}
	})
}
