package datacite

import "strings"

// Fixed text placed before the DOI suffix when appending it to a
// landing page URL.
const urlSuffixPrefix = "?wdt_column_filter[5]="

// Suffix returns the part of a DOI after the first '/', or "" when the
// DOI has no suffix.
func Suffix(doi string) string {
	_, suffix, ok := strings.Cut(doi, "/")
	if !ok {
		return ""
	}
	return suffix
}

// FullSuffix prepends the fixed query fragment to a DOI suffix.
func FullSuffix(suffix string) string {
	return urlSuffixPrefix + suffix
}

// AppendSuffix appends fullSuffix to baseURL. When baseURL already
// carries a query string the leading '?' becomes '&'.
func AppendSuffix(baseURL, fullSuffix string) string {
	if baseURL == "" || fullSuffix == "" {
		return baseURL
	}
	if strings.Contains(baseURL, "?") {
		return baseURL + strings.Replace(fullSuffix, "?", "&", 1)
	}
	return baseURL + fullSuffix
}

// NormalizeDOI strips common resolver prefixes so "https://doi.org/10.1/x"
// and "10.1/x" compare equal.
func NormalizeDOI(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/"} {
		if strings.HasPrefix(lower, p) {
			return s[len(p):]
		}
	}
	return s
}
