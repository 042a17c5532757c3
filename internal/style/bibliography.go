package style

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matsen/refcheck/internal/citation"
)

// BibliographyEntry is one formatted entry of a bibliography. Its
// position within the returned slice is its identity; numeric in-text
// styles render that position as [N].
type BibliographyEntry struct {
	Citation       citation.Citation `json:"citation"`
	FormattedText  string            `json:"formatted_text"`
	InTextCitation string            `json:"in_text_citation"`
	Style          Style             `json:"style"`
}

// surnameCollator compares surnames with locale-aware, case-insensitive
// ordering so that accented names sort where a reader expects them.
var surnameCollator = collate.New(language.English, collate.Loose)

// GenerateBibliography sorts citations ascending by first author's
// last name (citations without authors sort first, on the empty key)
// and renders each in the given style. The result corresponds 1:1 with
// the input; nothing is dropped. For numeric styles the in-text marker
// reflects the 1-based position in the sorted order.
func GenerateBibliography(citations []citation.Citation, s Style) ([]BibliographyEntry, error) {
	if _, ok := renderers[s]; !ok {
		return nil, ErrUnsupportedStyle
	}

	sorted := make([]citation.Citation, len(citations))
	copy(sorted, citations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return surnameCollator.CompareString(sorted[i].FirstAuthorLastName(), sorted[j].FirstAuthorLastName()) < 0
	})

	entries := make([]BibliographyEntry, 0, len(sorted))
	for i, c := range sorted {
		fc, err := FormatCitationAt(c, s, i+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, BibliographyEntry{
			Citation:       c,
			FormattedText:  fc.FormattedText,
			InTextCitation: fc.InTextCitation,
			Style:          s,
		})
	}
	return entries, nil
}
