package citation

import (
	"regexp"
	"strings"
)

// DOI pattern: 10.XXXX/... where XXXX is 4-9 digits. The character
// class matches the Crossref recommendation for DOI suffixes.
var doiPattern = regexp.MustCompile(`(?i)(?:doi:\s*|https?://(?:dx\.)?doi\.org/)?(10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+)`)

// strictDOIPattern validates a bare DOI with no prefix or whitespace.
var strictDOIPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// NormalizeDOI normalizes a DOI to a consistent key for comparison.
// It removes resolver URL and "doi:" prefixes, trims trailing
// punctuation, and lowercases the result.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/"} {
		if strings.HasPrefix(strings.ToLower(doi), prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	if len(doi) >= 4 && strings.EqualFold(doi[:4], "doi:") {
		doi = strings.TrimSpace(doi[4:])
	}
	doi = strings.TrimRight(doi, ".,;:)")
	return strings.ToLower(doi)
}

// IsValidDOI reports whether doi is a well-formed bare DOI.
func IsValidDOI(doi string) bool {
	return strictDOIPattern.MatchString(doi)
}
