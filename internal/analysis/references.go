// Package analysis scores reference-list quality and computes lexical
// similarity between text blocks.
package analysis

import (
	"fmt"
	"strings"

	"github.com/matsen/refcheck/internal/citation"
)

// ReferenceAnalysis is the quality report over one reference list.
type ReferenceAnalysis struct {
	TotalReferences     int      `json:"total_references"`
	ValidReferences     int      `json:"valid_references"`
	InvalidReferences   int      `json:"invalid_references"`
	DuplicateReferences int      `json:"duplicate_references"`
	QualityScore        float64  `json:"quality_score"` // 0-100
	Recommendations     []string `json:"recommendations"`
}

// AnalyzeReferences validates the citations and aggregates validity,
// duplicate detection, and completeness into a quality report.
func AnalyzeReferences(citations []citation.Citation) ReferenceAnalysis {
	return AnalyzeReferencesWithResults(citations, citation.ValidateCitations(citations))
}

// AnalyzeReferencesWithResults is AnalyzeReferences over precomputed
// validation results, paired 1:1 by position with the citations.
func AnalyzeReferencesWithResults(citations []citation.Citation, results []citation.ValidationResult) ReferenceAnalysis {
	a := ReferenceAnalysis{
		TotalReferences: len(citations),
		Recommendations: []string{},
	}
	if len(citations) == 0 {
		a.QualityScore = 100
		return a
	}

	for _, r := range results {
		if r.IsValid {
			a.ValidReferences++
		} else {
			a.InvalidReferences++
		}
	}
	a.DuplicateReferences = countDuplicates(citations)
	a.QualityScore = qualityScore(citations, a)
	a.Recommendations = recommendations(citations, a)
	return a
}

// identityKey is the duplicate-detection key: normalized DOI when
// present, otherwise lowercased title plus first author surname.
func identityKey(c citation.Citation) string {
	if c.DOI != "" {
		return "doi:" + citation.NormalizeDOI(c.DOI)
	}
	return strings.ToLower(strings.TrimSpace(c.Title)) + "|" + strings.ToLower(c.FirstAuthorLastName())
}

// countDuplicates counts every repeat beyond the first in each
// identity group.
func countDuplicates(citations []citation.Citation) int {
	groups := make(map[string]int)
	for _, c := range citations {
		groups[identityKey(c)]++
	}
	dups := 0
	for _, n := range groups {
		if n > 1 {
			dups += n - 1
		}
	}
	return dups
}

// qualityScore maps validity and completeness onto [0,100]. The score
// starts at 100 and decreases with the invalid fraction and with
// missing DOI/year/journal fields; duplicates cost a small capped
// penalty. A fully valid set with DOIs and years scores above 80.
func qualityScore(citations []citation.Citation, a ReferenceAnalysis) float64 {
	total := float64(len(citations))

	var missingDOI, missingYear, missingJournal, journalTyped float64
	for _, c := range citations {
		if c.DOI == "" {
			missingDOI++
		}
		if c.Year == 0 {
			missingYear++
		}
		if c.Type == citation.TypeJournal {
			journalTyped++
			if c.Journal == "" {
				missingJournal++
			}
		}
	}

	score := 100.0
	score -= 50 * float64(a.InvalidReferences) / total
	score -= 15 * missingDOI / total
	score -= 10 * missingYear / total
	if journalTyped > 0 {
		score -= 5 * missingJournal / journalTyped
	}

	dupPenalty := 5 * float64(a.DuplicateReferences)
	if dupPenalty > 15 {
		dupPenalty = 15
	}
	score -= dupPenalty

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func recommendations(citations []citation.Citation, a ReferenceAnalysis) []string {
	recs := []string{}

	if a.DuplicateReferences > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d duplicate reference(s)", a.DuplicateReferences))
	}
	if a.InvalidReferences > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d reference(s) with missing titles or authors", a.InvalidReferences))
	}

	var missingDOI, missingYear int
	for _, c := range citations {
		if c.DOI == "" {
			missingDOI++
		}
		if c.Year == 0 {
			missingYear++
		}
	}
	if missingDOI > 0 {
		recs = append(recs, fmt.Sprintf("Add DOIs to %d reference(s) for easier retrieval", missingDOI))
	}
	if missingYear > 0 {
		recs = append(recs, fmt.Sprintf("Add publication years to %d reference(s)", missingYear))
	}

	if len(recs) == 0 {
		recs = append(recs, "Reference list looks complete")
	}
	return recs
}
