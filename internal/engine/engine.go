// Package engine wires the citation, style, analysis, metadata, and
// plagiarism packages into the public surface consumed by the CLI and
// by embedding callers.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/matsen/refcheck/internal/analysis"
	"github.com/matsen/refcheck/internal/citation"
	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/corpus"
	"github.com/matsen/refcheck/internal/metadata"
	"github.com/matsen/refcheck/internal/plagiarism"
	"github.com/matsen/refcheck/internal/style"
)

// Engine is the reference and originality analysis engine. All methods
// are safe for concurrent use; the only shared mutable state is the
// plagiarism report cache, which is replaced wholesale per check.
type Engine struct {
	store    *corpus.Store
	metadata *metadata.Client
	checker  *plagiarism.Checker
	log      *zap.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the engine logger, shared with the plagiarism
// checker and metadata client.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// New builds an Engine from configuration: it opens the corpus
// database, prepares report persistence, and connects the metadata
// registry client. Close releases the database when done.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	store, err := corpus.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	clientOpts := []metadata.ClientOption{
		metadata.WithRows(cfg.SearchRows),
		metadata.WithLogger(o.log),
	}
	if cfg.MetadataBaseURL != "" {
		clientOpts = append(clientOpts, metadata.WithBaseURL(cfg.MetadataBaseURL))
	}
	if cfg.Mailto != "" {
		clientOpts = append(clientOpts, metadata.WithMailto(cfg.Mailto))
	}
	client := metadata.NewClient(clientOpts...)

	reports, err := plagiarism.NewReportStore(store.DB())
	if err != nil {
		store.Close()
		return nil, err
	}

	checker := plagiarism.NewChecker(store,
		[]plagiarism.CandidateSource{
			plagiarism.NewExternalSource(client),
			plagiarism.NewInternalSource(store, cfg.SampleLimit),
		},
		plagiarism.WithReportStore(reports),
		plagiarism.WithSimilarityFloor(cfg.SimilarityFloor),
		plagiarism.WithSourceTimeout(cfg.SourceTimeout()),
		plagiarism.WithLogger(o.log),
	)

	return &Engine{
		store:    store,
		metadata: client,
		checker:  checker,
		log:      o.log,
	}, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Corpus exposes the article store for corpus management commands.
func (e *Engine) Corpus() *corpus.Store {
	return e.store
}

// ExtractCitations scans raw text and returns deduplicated citation
// records.
func (e *Engine) ExtractCitations(text string) []citation.Citation {
	return citation.ExtractCitations(text)
}

// ValidateCitations checks completeness and format of each citation.
func (e *Engine) ValidateCitations(citations []citation.Citation) []citation.ValidationResult {
	return citation.ValidateCitations(citations)
}

// FormatCitation renders one citation in the given style.
func (e *Engine) FormatCitation(c citation.Citation, s style.Style) (style.FormattedCitation, error) {
	return style.FormatCitation(c, s)
}

// GenerateBibliography sorts and renders a citation list.
func (e *Engine) GenerateBibliography(citations []citation.Citation, s style.Style) ([]style.BibliographyEntry, error) {
	return style.GenerateBibliography(citations, s)
}

// AnalyzeReferences aggregates validation and duplicate detection into
// a quality report.
func (e *Engine) AnalyzeReferences(citations []citation.Citation) analysis.ReferenceAnalysis {
	return analysis.AnalyzeReferences(citations)
}

// AnalyzeSimilarity compares two text blocks.
func (e *Engine) AnalyzeSimilarity(textA, textB string) analysis.SimilarityAnalysis {
	return analysis.AnalyzeSimilarity(textA, textB)
}

// SearchCitationMetadata resolves a DOI or free-text query against the
// metadata registry.
func (e *Engine) SearchCitationMetadata(ctx context.Context, query string) ([]citation.Citation, error) {
	return e.metadata.LookupCitations(ctx, query)
}

// CheckPlagiarism runs a plagiarism check for a stored article.
func (e *Engine) CheckPlagiarism(ctx context.Context, articleID string) (plagiarism.Report, error) {
	return e.checker.Check(ctx, articleID)
}

// GetPlagiarismReport returns the last completed report for an
// article without recomputing anything.
func (e *Engine) GetPlagiarismReport(ctx context.Context, articleID string) (plagiarism.Report, error) {
	return e.checker.Report(ctx, articleID)
}
