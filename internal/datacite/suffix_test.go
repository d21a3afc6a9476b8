package datacite

import "testing"

func TestSuffix(t *testing.T) {
	cases := []struct {
		name string
		doi  string
		want string
	}{
		{"plain doi", "10.1234/abcd", "abcd"},
		{"suffix with slashes", "10.1234/ab/cd", "ab/cd"},
		{"prefix only", "10.1234", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Suffix(tc.doi); got != tc.want {
				t.Errorf("Suffix(%q) = %q, want %q", tc.doi, got, tc.want)
			}
		})
	}
}

func TestFullSuffix(t *testing.T) {
	got := FullSuffix("abcd")
	want := "?wdt_column_filter[5]=abcd"
	if got != want {
		t.Errorf("FullSuffix = %q, want %q", got, want)
	}
}

func TestAppendSuffix(t *testing.T) {
	t.Run("plain URL keeps the question mark", func(t *testing.T) {
		got := AppendSuffix("https://example.org/page", "?wdt_column_filter[5]=abcd")
		want := "https://example.org/page?wdt_column_filter[5]=abcd"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("URL with a query switches to ampersand", func(t *testing.T) {
		got := AppendSuffix("https://example.org/page?tab=1", "?wdt_column_filter[5]=abcd")
		want := "https://example.org/page?tab=1&wdt_column_filter[5]=abcd"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("empty inputs pass through", func(t *testing.T) {
		if got := AppendSuffix("", "?x=1"); got != "" {
			t.Errorf("got %q, want empty", got)
		}
		if got := AppendSuffix("https://example.org", ""); got != "https://example.org" {
			t.Errorf("got %q, want base URL", got)
		}
	})
}

func TestNormalizeDOI(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare doi", "10.1234/abcd", "10.1234/abcd"},
		{"https resolver", "https://doi.org/10.1234/abcd", "10.1234/abcd"},
		{"http resolver", "http://doi.org/10.1234/abcd", "10.1234/abcd"},
		{"dx resolver", "https://dx.doi.org/10.1234/abcd", "10.1234/abcd"},
		{"mixed case resolver", "HTTPS://DOI.ORG/10.1234/abcd", "10.1234/abcd"},
		{"surrounding whitespace", "  10.1234/abcd  ", "10.1234/abcd"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDOI(tc.raw); got != tc.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
