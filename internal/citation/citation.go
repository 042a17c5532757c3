// Package citation defines the core domain types for bibliographic
// citations and provides extraction and validation over raw text.
package citation

// Citation type constants. Unknown is the default for records whose
// surface form does not reveal a publication venue.
const (
	TypeJournal    = "journal"
	TypeBook       = "book"
	TypeConference = "conference"
	TypeWebsite    = "website"
	TypeUnknown    = "unknown"
)

// Citation represents one bibliographic reference extracted from a
// manuscript or returned by a metadata lookup. Only ID is guaranteed
// to be set; every other field is best-effort.
type Citation struct {
	ID   string `json:"id"`
	Type string `json:"type"` // journal, book, conference, website, unknown

	Title   string   `json:"title"`
	Authors []Author `json:"authors"` // ordered as they appear
	Year    int      `json:"year,omitempty"`

	Journal string `json:"journal,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Issue   string `json:"issue,omitempty"`
	Pages   string `json:"pages,omitempty"`

	DOI       string   `json:"doi,omitempty"` // primary deduplication key
	URL       string   `json:"url,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Author represents a cited author with optional ORCID identifier.
type Author struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ORCID     string `json:"orcid,omitempty"`
}

// fieldCount returns the number of populated metadata fields. Used by
// the extraction merge step to keep the richer of two records sharing
// a DOI.
func (c Citation) fieldCount() int {
	n := 0
	for _, s := range []string{c.Title, c.Journal, c.Volume, c.Issue, c.Pages, c.DOI, c.URL, c.Publisher, c.ISBN} {
		if s != "" {
			n++
		}
	}
	if len(c.Authors) > 0 {
		n++
	}
	if c.Year != 0 {
		n++
	}
	return n
}

// FirstAuthorLastName returns the last name of the first author, or ""
// when the citation has no authors.
func (c Citation) FirstAuthorLastName() string {
	if len(c.Authors) == 0 {
		return ""
	}
	return c.Authors[0].LastName
}
