package plagiarism

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/refcheck/internal/analysis"
	"github.com/matsen/refcheck/internal/corpus"
	"github.com/matsen/refcheck/internal/metadata"
)

const articleBody = `Rising global temperatures are driving feedback loops in the
climate system. Melting permafrost releases methane, which accelerates
warming and further melting. These dynamics make long-term projections
difficult and motivate aggressive mitigation policies.`

// fakeSource is a scripted CandidateSource.
type fakeSource struct {
	name       string
	candidates []metadata.Candidate
	err        error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Candidates(ctx context.Context, _ corpus.Article) ([]metadata.Candidate, error) {
	return f.candidates, f.err
}

func openCorpus(t *testing.T) *corpus.Store {
	t.Helper()
	s, err := corpus.Open(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("corpus.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storeArticle(t *testing.T, s *corpus.Store, id, content string) {
	t.Helper()
	if err := s.Put(context.Background(), corpus.Article{ID: id, Title: "Article " + id, Content: content}); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestCheck_ExternalFailureDegrades(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	failing := &fakeSource{name: ServiceExternal, err: errors.New("registry down")}
	c := NewChecker(store, []CandidateSource{failing})

	report, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", report.Status)
	}
	if len(report.Sources) != 0 {
		t.Errorf("Sources = %d, want 0 when the only source fails", len(report.Sources))
	}
	if report.OverallSimilarity != 0 {
		t.Errorf("OverallSimilarity = %v, want 0", report.OverallSimilarity)
	}
}

func TestCheck_ServiceTagReflectsRespondingSource(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	// External down, internal reachable but with nothing above the
	// floor: the report must credit only the source that answered.
	failing := &fakeSource{name: ServiceExternal, err: errors.New("registry down")}
	internal := &fakeSource{
		name: ServiceInternal,
		candidates: []metadata.Candidate{
			{SourceID: "art-9", Title: "Braising beef", Abstract: "slow cooking collagen gelatin tender meat"},
		},
	}
	c := NewChecker(store, []CandidateSource{failing, internal})

	report, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Sources) != 0 {
		t.Fatalf("Sources = %d, want 0 below the floor", len(report.Sources))
	}
	if report.Service != ServiceInternal {
		t.Errorf("Service = %q, want internal when only the internal source responded", report.Service)
	}
}

func TestBuildSource_RepeatedPhraseDistinctSpans(t *testing.T) {
	phrase := "melting permafrost releases methane"
	normText := phrase + " and decades later " + phrase + " again"

	sc := scoredCandidate{
		cand: metadata.Candidate{SourceID: "src-1", Title: "Twin"},
		analysis: analysis.SimilarityAnalysis{
			Similarity:     0.8,
			MatchedPhrases: []string{phrase, phrase},
		},
		ok: true,
	}

	src := buildSource(sc, normText, len(strings.Fields(normText)))
	if len(src.Matches) != 2 {
		t.Fatalf("Matches = %d, want 2", len(src.Matches))
	}
	first, second := src.Matches[0], src.Matches[1]
	if first.StartPosition != 0 || first.EndPosition != len(phrase) {
		t.Errorf("first span = [%d,%d), want [0,%d)", first.StartPosition, first.EndPosition, len(phrase))
	}
	if second.StartPosition <= first.StartPosition {
		t.Errorf("second occurrence mapped to span [%d,%d), want a position after the first",
			second.StartPosition, second.EndPosition)
	}
	if got := normText[second.StartPosition:second.EndPosition]; got != phrase {
		t.Errorf("second span text = %q, want %q", got, phrase)
	}
}

func TestCheck_UnknownArticle(t *testing.T) {
	store := openCorpus(t)
	c := NewChecker(store, nil)

	_, err := c.Check(context.Background(), "missing")
	if !errors.Is(err, corpus.ErrArticleNotFound) {
		t.Errorf("err = %v, want ErrArticleNotFound", err)
	}
}

func TestCheck_ExternalMatchRetained(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	external := &fakeSource{
		name: ServiceExternal,
		candidates: []metadata.Candidate{
			{SourceID: "10.1000/match", Title: "A matching paper", Abstract: articleBody},
			{SourceID: "10.1000/other", Title: "Braising beef", Abstract: "slow cooking collagen gelatin tender meat"},
		},
	}
	c := NewChecker(store, []CandidateSource{external})

	report, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1 (only the matching candidate passes the floor): %+v",
			len(report.Sources), report.Sources)
	}

	src := report.Sources[0]
	if src.SourceID != "10.1000/match" {
		t.Errorf("SourceID = %q", src.SourceID)
	}
	if src.Similarity <= DefaultSimilarityFloor {
		t.Errorf("Similarity = %v, want above floor", src.Similarity)
	}
	if len(src.Matches) == 0 {
		t.Error("retained source has no text matches")
	}
	if src.TotalWords == 0 || src.MatchedWords == 0 {
		t.Errorf("word counts not populated: %+v", src)
	}
	if report.Service != ServiceExternal {
		t.Errorf("Service = %q, want external", report.Service)
	}
	if report.OverallSimilarity != src.Similarity {
		t.Errorf("OverallSimilarity = %v, want max source similarity %v",
			report.OverallSimilarity, src.Similarity)
	}
}

func TestCheck_CombinedService(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)
	storeArticle(t, store, "art-2", articleBody) // near-identical corpus sibling

	external := &fakeSource{
		name: ServiceExternal,
		candidates: []metadata.Candidate{
			{SourceID: "ext-1", Title: "External twin", Abstract: articleBody},
		},
	}
	internal := NewInternalSource(store, 10)
	c := NewChecker(store, []CandidateSource{external, internal})

	report, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.Service != ServiceCombined {
		t.Errorf("Service = %q, want combined", report.Service)
	}
	if len(report.Sources) < 2 {
		t.Errorf("Sources = %d, want at least 2", len(report.Sources))
	}
	// Sources are ordered by similarity, best first.
	for i := 1; i < len(report.Sources); i++ {
		if report.Sources[i].Similarity > report.Sources[i-1].Similarity {
			t.Errorf("sources not sorted by similarity: %+v", report.Sources)
		}
	}
}

func TestCheck_InternalExcludesSelf(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	c := NewChecker(store, []CandidateSource{NewInternalSource(store, 10)})
	report, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	for _, src := range report.Sources {
		if src.SourceID == "art-1" {
			t.Error("article matched against itself")
		}
	}
}

func TestReport_CacheAndPersistence(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	rs, err := NewReportStore(store.DB())
	if err != nil {
		t.Fatalf("NewReportStore: %v", err)
	}
	c := NewChecker(store, nil, WithReportStore(rs))

	checked, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	// Cached read.
	got, err := c.Report(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got.ArticleID != checked.ArticleID || got.Status != StatusCompleted {
		t.Errorf("cached report mismatch: %+v", got)
	}

	// A fresh checker sharing only the store must read the persisted row.
	fresh := NewChecker(store, nil, WithReportStore(rs))
	persisted, err := fresh.Report(context.Background(), "art-1")
	if err != nil {
		t.Fatalf("Report from store: %v", err)
	}
	if persisted.ArticleID != "art-1" || persisted.Status != StatusCompleted {
		t.Errorf("persisted report mismatch: %+v", persisted)
	}
	if persisted.Sources == nil || persisted.TextMatches == nil {
		t.Errorf("persisted report lost empty slices: %+v", persisted)
	}
}

func TestReport_NotFound(t *testing.T) {
	store := openCorpus(t)
	c := NewChecker(store, nil)

	_, err := c.Report(context.Background(), "never-checked")
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestCheck_OverwritesPreviousReport(t *testing.T) {
	store := openCorpus(t)
	storeArticle(t, store, "art-1", articleBody)

	external := &fakeSource{
		name: ServiceExternal,
		candidates: []metadata.Candidate{
			{SourceID: "ext-1", Title: "Twin", Abstract: articleBody},
		},
	}
	c := NewChecker(store, []CandidateSource{external})

	first, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Sources) != 1 {
		t.Fatalf("first check Sources = %d, want 1", len(first.Sources))
	}

	// Source disappears; the second check must replace, not append.
	external.candidates = nil
	second, err := c.Check(context.Background(), "art-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Sources) != 0 {
		t.Errorf("second check Sources = %d, want 0", len(second.Sources))
	}

	got, err := c.Report(context.Background(), "art-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sources) != 0 {
		t.Errorf("stored report not replaced wholesale: %+v", got)
	}
}
