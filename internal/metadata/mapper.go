package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/refcheck/internal/citation"
)

// crossrefTypeMap maps registry work types onto citation types.
var crossrefTypeMap = map[string]string{
	"journal-article":     citation.TypeJournal,
	"proceedings-article": citation.TypeConference,
	"book":                citation.TypeBook,
	"book-chapter":        citation.TypeBook,
	"monograph":           citation.TypeBook,
	"posted-content":      citation.TypeWebsite,
}

// jatsTagPattern strips JATS XML markup that Crossref embeds in
// abstract fields.
var jatsTagPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// mapWorkToCandidate converts a registry work into a candidate source
// for similarity comparison.
func mapWorkToCandidate(w crossrefWork) Candidate {
	authors := make([]string, 0, len(w.Author))
	for _, a := range w.Author {
		authors = append(authors, strings.TrimSpace(a.Given+" "+a.Family))
	}
	return Candidate{
		SourceID: w.DOI,
		Title:    firstOrEmpty(w.Title),
		Authors:  authors,
		Abstract: cleanAbstract(w.Abstract),
		URL:      w.URL,
		DOI:      citation.NormalizeDOI(w.DOI),
	}
}

// mapWorkToCitation converts a registry work into a citation record.
func mapWorkToCitation(w crossrefWork) citation.Citation {
	c := citation.Citation{
		Type:      citationType(w.Type),
		Title:     firstOrEmpty(w.Title),
		Year:      w.Issued.Year(),
		Journal:   firstOrEmpty(w.ContainerTitle),
		Volume:    w.Volume,
		Issue:     w.Issue,
		Pages:     w.Page,
		DOI:       citation.NormalizeDOI(w.DOI),
		URL:       w.URL,
		Publisher: w.Publisher,
		ISBN:      firstOrEmpty(w.ISBN),
		Keywords:  w.Subject,
	}
	for _, a := range w.Author {
		c.Authors = append(c.Authors, citation.Author{
			FirstName: a.Given,
			LastName:  a.Family,
			ORCID:     trimORCID(a.ORCID),
		})
	}
	c.ID = citeKeyFor(c)
	return c
}

func citationType(crossrefType string) string {
	if t, ok := crossrefTypeMap[crossrefType]; ok {
		return t
	}
	return citation.TypeUnknown
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// cleanAbstract removes JATS markup and collapses whitespace.
func cleanAbstract(abstract string) string {
	if abstract == "" {
		return ""
	}
	plain := jatsTagPattern.ReplaceAllString(abstract, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// trimORCID strips the URL prefix the registry attaches to ORCID iDs.
func trimORCID(orcid string) string {
	orcid = strings.TrimPrefix(orcid, "https://orcid.org/")
	return strings.TrimPrefix(orcid, "http://orcid.org/")
}

// citeKeyFor builds a stable ID for a looked-up citation: surname and
// year when known, DOI suffix otherwise.
func citeKeyFor(c citation.Citation) string {
	if last := c.FirstAuthorLastName(); last != "" && c.Year != 0 {
		var b strings.Builder
		for _, r := range last {
			if r != ' ' && r != '-' && r != '\'' {
				b.WriteRune(r)
			}
		}
		return b.String() + strconv.Itoa(c.Year)
	}
	if c.DOI != "" {
		return c.DOI
	}
	return "lookup"
}
