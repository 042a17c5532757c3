// Package metadata queries an external bibliographic registry
// (Crossref-compatible REST API) for candidate works and citation
// records.
package metadata

// Candidate is one external document considered as a potential match
// during plagiarism analysis or metadata search. The same shape is
// produced by the internal corpus store so both sources can be
// iterated uniformly.
type Candidate struct {
	SourceID string   `json:"source_id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract,omitempty"`
	URL      string   `json:"url,omitempty"`
	DOI      string   `json:"doi,omitempty"`
}

// Text returns the candidate's comparable text: abstract when
// available, title otherwise.
func (c Candidate) Text() string {
	if c.Abstract != "" {
		return c.Title + " " + c.Abstract
	}
	return c.Title
}

// crossrefResponse is the envelope of every registry response.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

// crossrefMessage holds either a work list (search) or a single work
// (DOI lookup); the registry uses the same envelope for both.
type crossrefMessage struct {
	Items []crossrefWork `json:"items"`

	// Single-work fields, populated on /works/{doi} responses.
	crossrefWork
}

type crossrefWork struct {
	DOI            string            `json:"DOI"`
	Title          []string          `json:"title"`
	Author         []crossrefAuthor  `json:"author"`
	Abstract       string            `json:"abstract"`
	URL            string            `json:"URL"`
	ContainerTitle []string          `json:"container-title"`
	Volume         string            `json:"volume"`
	Issue          string            `json:"issue"`
	Page           string            `json:"page"`
	Publisher      string            `json:"publisher"`
	ISBN           []string          `json:"ISBN"`
	Subject        []string          `json:"subject"`
	Type           string            `json:"type"`
	Issued         crossrefDateParts `json:"issued"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

type crossrefDateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the first year component, or 0 when absent.
func (d crossrefDateParts) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}
