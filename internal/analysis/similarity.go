package analysis

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// shingleSize is the sliding-window width, in words, used to find
	// shared phrases.
	shingleSize = 5

	// suspiciousRunWords is the minimum length, in words, of a shared
	// contiguous span flagged as a verbatim-copy indicator.
	suspiciousRunWords = 12

	// maxMatchedPhrases bounds the evidence list on pathological input.
	maxMatchedPhrases = 20
)

// SimilarityAnalysis is the outcome of comparing two text blocks.
// Similarity is bounded to [0,1].
type SimilarityAnalysis struct {
	Similarity         float64  `json:"similarity"`
	MatchedPhrases     []string `json:"matched_phrases"`
	SuspiciousPatterns []string `json:"suspicious_patterns"`
	Recommendations    []string `json:"recommendations"`
}

// AnalyzeSimilarity computes a bounded similarity score and
// matched-phrase evidence between two text blocks. Both texts are
// case-folded, stripped of punctuation, and tokenized into words;
// overlap is measured on sliding word-windows. The score blends
// shingle coverage with unigram overlap so that paraphrased but
// related texts land in a positive intermediate band: identical texts
// score near 1, texts with disjoint vocabularies score 0. Never fails.
func AnalyzeSimilarity(textA, textB string) SimilarityAnalysis {
	a := SimilarityAnalysis{
		MatchedPhrases:     []string{},
		SuspiciousPatterns: []string{},
	}

	tokensA := tokenize(textA)
	tokensB := tokenize(textB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		a.Recommendations = bandedRecommendations(0)
		return a
	}

	unigram := unigramJaccard(tokensA, tokensB)

	if len(tokensA) < shingleSize || len(tokensB) < shingleSize {
		// Too short for phrase windows; fall back to word overlap.
		a.Similarity = unigram
		a.Recommendations = bandedRecommendations(a.Similarity)
		return a
	}

	shinglesA := shingles(tokensA)
	shinglesB := shingles(tokensB)
	setB := make(map[string]bool, len(shinglesB))
	for _, s := range shinglesB {
		setB[s] = true
	}

	shared := 0
	seen := make(map[string]bool)
	for _, s := range shinglesA {
		if setB[s] && !seen[s] {
			seen[s] = true
			shared++
		}
	}
	coverage := 2 * float64(shared) / float64(distinct(shinglesA)+distinct(shinglesB))

	// Coverage dominates; the unigram term keeps paraphrased texts
	// above zero even when no full window survives rewording.
	a.Similarity = clamp01(0.75*coverage + 0.25*unigram)

	a.MatchedPhrases, a.SuspiciousPatterns = sharedRuns(tokensA, setB)
	a.Recommendations = bandedRecommendations(a.Similarity)
	return a
}

// Normalize returns the canonical comparable form of a text: case-
// folded, punctuation stripped, whitespace collapsed to single spaces.
// Matched phrases reported by AnalyzeSimilarity are substrings of this
// form.
func Normalize(text string) string {
	return strings.Join(tokenize(text), " ")
}

// tokenize case-folds, strips punctuation, collapses whitespace, and
// splits into words.
func tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// shingles returns the sliding word-windows of tokens, joined by one
// space.
func shingles(tokens []string) []string {
	out := make([]string, 0, len(tokens)-shingleSize+1)
	for i := 0; i+shingleSize <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+shingleSize], " "))
	}
	return out
}

func distinct(ss []string) int {
	set := make(map[string]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return len(set)
}

func unigramJaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// sharedRuns walks tokensA finding maximal runs of consecutive windows
// present in the other text, expanding each run back to its full word
// span. Runs at or above suspiciousRunWords are additionally flagged
// as verbatim-copy indicators.
func sharedRuns(tokensA []string, setB map[string]bool) (phrases, suspicious []string) {
	phrases = []string{}
	suspicious = []string{}

	i := 0
	for i+shingleSize <= len(tokensA) {
		if !setB[strings.Join(tokensA[i:i+shingleSize], " ")] {
			i++
			continue
		}

		// Extend the run while consecutive windows keep matching.
		j := i
		for j+shingleSize <= len(tokensA) && setB[strings.Join(tokensA[j:j+shingleSize], " ")] {
			j++
		}
		end := j + shingleSize - 1 // last token index (exclusive bound below)
		span := strings.Join(tokensA[i:end], " ")

		if len(phrases) < maxMatchedPhrases {
			phrases = append(phrases, span)
		}
		if runWords := end - i; runWords >= suspiciousRunWords {
			suspicious = append(suspicious, fmt.Sprintf("verbatim overlap of %d words: %q", runWords, truncateWords(span, 10)))
		}

		i = end
	}
	return phrases, suspicious
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

// bandedRecommendations maps a score to guidance strings.
func bandedRecommendations(score float64) []string {
	switch {
	case score >= 0.7:
		return []string{"High similarity detected; review manually for potential overlap"}
	case score >= 0.4:
		return []string{"Moderate similarity detected; verify that shared passages are quoted and cited"}
	case score >= 0.15:
		return []string{"Minor similarity detected; likely common phrasing"}
	default:
		return []string{"No significant overlap detected"}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
