// Package plagiarism orchestrates similarity analysis of one article
// against internal-corpus and external-registry candidate sources and
// assembles the results into a persistent report.
package plagiarism

import "time"

// Report statuses. A persisted report always carries StatusCompleted;
// the other values exist for in-flight bookkeeping by callers.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Service tags describing which candidate sources contributed.
const (
	ServiceInternal = "internal"
	ServiceExternal = "external"
	ServiceCombined = "combined"
)

// Report is the outcome of one plagiarism check. It is JSON-
// serializable and replaced wholesale on every check; a stored report
// is never partially written.
type Report struct {
	ArticleID         string      `json:"article_id"`
	OverallSimilarity float64     `json:"overall_similarity"` // 0-1
	Sources           []Source    `json:"sources"`
	TextMatches       []TextMatch `json:"text_matches"`
	Status            string      `json:"status"`
	Service           string      `json:"service"`
	GeneratedAt       time.Time   `json:"generated_at"`
}

// Source is one candidate document retained above the similarity
// floor.
type Source struct {
	SourceID     string      `json:"source_id"`
	Title        string      `json:"title"`
	Authors      []string    `json:"authors,omitempty"`
	URL          string      `json:"url,omitempty"`
	DOI          string      `json:"doi,omitempty"`
	Similarity   float64     `json:"similarity"`
	MatchedWords int         `json:"matched_words"`
	TotalWords   int         `json:"total_words"`
	Matches      []TextMatch `json:"matches"`
}

// TextMatch is one shared span of text between the article and a
// candidate source. Positions index into the normalized form of the
// article text (analysis.Normalize).
type TextMatch struct {
	OriginalText  string  `json:"original_text"`
	MatchedText   string  `json:"matched_text"`
	Similarity    float64 `json:"similarity"`
	StartPosition int     `json:"start_position"`
	EndPosition   int     `json:"end_position"`
	SourceID      string  `json:"source_id,omitempty"`
	Title         string  `json:"title,omitempty"`
	URL           string  `json:"url,omitempty"`
}
