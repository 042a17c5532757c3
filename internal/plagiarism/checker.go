package plagiarism

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/refcheck/internal/analysis"
	"github.com/matsen/refcheck/internal/corpus"
	"github.com/matsen/refcheck/internal/metadata"
)

const (
	// DefaultSimilarityFloor is the minimum similarity for a candidate
	// to be retained as a source.
	DefaultSimilarityFloor = 0.3

	// DefaultSourceTimeout bounds each candidate-source query.
	DefaultSourceTimeout = 5 * time.Second

	// DefaultConcurrency limits parallel similarity comparisons.
	DefaultConcurrency = 4

	// DefaultCacheTTL is how long completed reports stay in the
	// in-memory cache.
	DefaultCacheTTL = 30 * time.Minute

	// maxReportMatches bounds the report-level match list.
	maxReportMatches = 20
)

// Checker runs plagiarism checks for stored articles against a set of
// candidate sources. A failing source degrades to zero candidates; it
// never aborts the check.
type Checker struct {
	articles *corpus.Store
	sources  []CandidateSource
	reports  *ReportStore // optional persistence
	cache    *gocache.Cache
	log      *zap.Logger

	floor       float64
	timeout     time.Duration
	concurrency int
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithLogger sets the checker logger.
func WithLogger(log *zap.Logger) CheckerOption {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

// WithReportStore enables SQLite persistence of completed reports.
func WithReportStore(rs *ReportStore) CheckerOption {
	return func(c *Checker) { c.reports = rs }
}

// WithSimilarityFloor overrides the retention floor.
func WithSimilarityFloor(floor float64) CheckerOption {
	return func(c *Checker) { c.floor = floor }
}

// WithSourceTimeout overrides the per-source query timeout.
func WithSourceTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConcurrency overrides the comparison parallelism.
func WithConcurrency(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewChecker creates a Checker over the given article store and
// candidate sources.
func NewChecker(articles *corpus.Store, sources []CandidateSource, opts ...CheckerOption) *Checker {
	c := &Checker{
		articles:    articles,
		sources:     sources,
		cache:       gocache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
		log:         zap.NewNop(),
		floor:       DefaultSimilarityFloor,
		timeout:     DefaultSourceTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scoredCandidate pairs a candidate with its comparison outcome. One
// slot per candidate keeps the concurrent comparisons write-disjoint.
type scoredCandidate struct {
	source   string // contributing CandidateSource name
	cand     metadata.Candidate
	analysis analysis.SimilarityAnalysis
	ok       bool
}

// Check runs a full plagiarism check for the article. The only error
// condition is an unknown article ID; every collaborator failure is
// caught, logged, and degraded to zero candidates from that source, so
// the returned report is always completed.
func (c *Checker) Check(ctx context.Context, articleID string) (Report, error) {
	article, err := c.articles.Article(ctx, articleID)
	if err != nil {
		return Report{}, fmt.Errorf("loading article: %w", err)
	}

	text := article.Text()
	normText := analysis.Normalize(text)
	totalWords := len(strings.Fields(normText))

	scored, responded := c.collectAndScore(ctx, article, text)

	report := Report{
		ArticleID:   articleID,
		Sources:     []Source{},
		TextMatches: []TextMatch{},
		Status:      StatusCompleted,
		GeneratedAt: time.Now().UTC(),
	}

	contributed := map[string]bool{}
	for _, sc := range scored {
		if !sc.ok || sc.analysis.Similarity <= c.floor {
			continue
		}
		contributed[sc.source] = true
		src := buildSource(sc, normText, totalWords)
		report.Sources = append(report.Sources, src)
		if sc.analysis.Similarity > report.OverallSimilarity {
			report.OverallSimilarity = sc.analysis.Similarity
		}
	}

	sort.SliceStable(report.Sources, func(i, j int) bool {
		return report.Sources[i].Similarity > report.Sources[j].Similarity
	})

	for _, src := range report.Sources {
		for _, m := range src.Matches {
			if len(report.TextMatches) == maxReportMatches {
				break
			}
			report.TextMatches = append(report.TextMatches, m)
		}
	}

	report.Service = c.serviceTag(contributed, responded)
	c.persist(ctx, report)

	c.log.Info("plagiarism check completed",
		zap.String("article_id", articleID),
		zap.Float64("overall_similarity", report.OverallSimilarity),
		zap.Int("sources", len(report.Sources)),
		zap.String("service", report.Service))
	return report, nil
}

// collectAndScore queries every candidate source and scores each
// candidate concurrently. Comparisons are merged only after the whole
// group has settled; a failed or cancelled comparison degrades its own
// slot, not the run.
func (c *Checker) collectAndScore(ctx context.Context, article corpus.Article, text string) ([]scoredCandidate, map[string]bool) {
	var scored []scoredCandidate
	responded := map[string]bool{}
	for _, src := range c.sources {
		sctx, cancel := context.WithTimeout(ctx, c.timeout)
		candidates, err := src.Candidates(sctx, article)
		cancel()
		if err != nil {
			c.log.Warn("candidate source failed; continuing without it",
				zap.String("article_id", article.ID),
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}
		responded[src.Name()] = true
		for _, cand := range candidates {
			scored = append(scored, scoredCandidate{source: src.Name(), cand: cand})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range scored {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // abandoned comparison; slot stays not-ok
			}
			sc := &scored[i]
			if sc.cand.Text() == "" {
				return nil
			}
			sc.analysis = analysis.AnalyzeSimilarity(text, sc.cand.Text())
			sc.ok = true
			return nil
		})
	}
	g.Wait() // comparisons never return errors; Wait only fences the merge
	return scored, responded
}

// buildSource turns one retained comparison into a report source with
// positioned text matches.
func buildSource(sc scoredCandidate, normText string, totalWords int) Source {
	src := Source{
		SourceID:   sc.cand.SourceID,
		Title:      sc.cand.Title,
		Authors:    sc.cand.Authors,
		URL:        sc.cand.URL,
		DOI:        sc.cand.DOI,
		Similarity: sc.analysis.Similarity,
		TotalWords: totalWords,
		Matches:    []TextMatch{},
	}

	// Matched phrases arrive in article order; resuming each search
	// after the previous match keeps repeated phrases at distinct spans.
	searchFrom := 0
	for _, phrase := range sc.analysis.MatchedPhrases {
		src.MatchedWords += len(strings.Fields(phrase))
		start := strings.Index(normText[searchFrom:], phrase)
		if start >= 0 {
			start += searchFrom
		} else {
			start = strings.Index(normText, phrase)
		}
		end := start + len(phrase)
		if start < 0 {
			start, end = 0, 0
		} else {
			searchFrom = end
		}
		src.Matches = append(src.Matches, TextMatch{
			OriginalText:  phrase,
			MatchedText:   phrase,
			Similarity:    sc.analysis.Similarity,
			StartPosition: start,
			EndPosition:   end,
			SourceID:      sc.cand.SourceID,
			Title:         sc.cand.Title,
			URL:           sc.cand.URL,
		})
	}
	return src
}

// serviceTag derives the report's service tag from which sources
// contributed retained results, falling back to the sources that
// responded at all. A degraded run where only one source answered is
// tagged with that source, never "combined".
func (c *Checker) serviceTag(contributed, responded map[string]bool) string {
	if tag, ok := tagFor(contributed); ok {
		return tag
	}
	if tag, ok := tagFor(responded); ok {
		return tag
	}
	if len(c.sources) == 1 {
		return c.sources[0].Name()
	}
	return ServiceCombined
}

func tagFor(set map[string]bool) (string, bool) {
	switch {
	case set[ServiceExternal] && set[ServiceInternal]:
		return ServiceCombined, true
	case set[ServiceInternal]:
		return ServiceInternal, true
	case set[ServiceExternal]:
		return ServiceExternal, true
	}
	return "", false
}

// persist writes the completed report to the cache and, when
// configured, the report store. Both writes replace the previous
// report wholesale.
func (c *Checker) persist(ctx context.Context, r Report) {
	c.cache.Set(r.ArticleID, r, gocache.DefaultExpiration)
	if c.reports == nil {
		return
	}
	if err := c.reports.Save(ctx, r); err != nil {
		c.log.Warn("persisting report failed; report remains cached",
			zap.String("article_id", r.ArticleID),
			zap.Error(err))
	}
}

// Report returns the last completed report for an article, from the
// in-memory cache or the report store. It performs no computation.
func (c *Checker) Report(ctx context.Context, articleID string) (Report, error) {
	if v, ok := c.cache.Get(articleID); ok {
		if r, ok := v.(Report); ok {
			return r, nil
		}
	}
	if c.reports != nil {
		return c.reports.Get(ctx, articleID)
	}
	return Report{}, ErrReportNotFound
}
