package citation

import "strings"

// Validation messages. Callers match on these strings, so they are
// stable constants rather than free-form text.
const (
	ErrMsgMissingTitle   = "Title is missing or unknown"
	ErrMsgNoAuthors      = "No authors specified"
	ErrMsgInvalidDOI     = "Invalid DOI format"
	WarnMsgMissingYear   = "Publication year is missing"
	WarnMsgMissingVenue  = "Journal name is missing"
	SuggestMsgMissingDOI = "Consider adding a DOI for easier retrieval"
)

// ValidationResult holds the outcome of validating one citation.
// IsValid is true iff Errors is empty; warnings and suggestions never
// gate validity.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// ValidateCitations checks completeness and format of each citation,
// independent of any rendering style. The result slice is paired 1:1
// by position with the input; each citation is validated on its own
// with no cross-citation state.
func ValidateCitations(citations []Citation) []ValidationResult {
	results := make([]ValidationResult, len(citations))
	for i, c := range citations {
		results[i] = validateOne(c)
	}
	return results
}

func validateOne(c Citation) ValidationResult {
	r := ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	if strings.TrimSpace(c.Title) == "" {
		r.Errors = append(r.Errors, ErrMsgMissingTitle)
	}
	if len(c.Authors) == 0 {
		r.Errors = append(r.Errors, ErrMsgNoAuthors)
	}
	if c.DOI != "" && !IsValidDOI(c.DOI) {
		r.Errors = append(r.Errors, ErrMsgInvalidDOI)
	}

	if c.Year == 0 {
		r.Warnings = append(r.Warnings, WarnMsgMissingYear)
	}
	if c.Type == TypeJournal && c.Journal == "" {
		r.Warnings = append(r.Warnings, WarnMsgMissingVenue)
	}

	if c.DOI == "" && c.Type == TypeJournal {
		r.Suggestions = append(r.Suggestions, SuggestMsgMissingDOI)
	}
	for _, a := range c.Authors {
		if a.ORCID == "" {
			r.Suggestions = append(r.Suggestions, "Author "+authorDisplayName(a)+" has no ORCID identifier")
			break // one suggestion covers the set
		}
	}
	if c.Type == TypeJournal && c.Pages == "" {
		r.Suggestions = append(r.Suggestions, "Page range is missing")
	}

	r.IsValid = len(r.Errors) == 0
	return r
}

func authorDisplayName(a Author) string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.LastName != "":
		return a.LastName
	default:
		return a.FirstName
	}
}
