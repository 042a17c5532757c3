package plagiarism

import (
	"context"
	"strings"

	"github.com/matsen/refcheck/internal/corpus"
	"github.com/matsen/refcheck/internal/metadata"
)

// CandidateSource yields candidate documents to compare an article
// against. The external registry and the internal corpus are two
// implementations iterated uniformly by the checker.
type CandidateSource interface {
	// Name tags the source in reports: "external" or "internal".
	Name() string
	Candidates(ctx context.Context, article corpus.Article) ([]metadata.Candidate, error)
}

// queryWords caps how much of the abstract feeds the external search
// query.
const queryWords = 25

// ExternalSource searches the metadata registry with the article's
// title and abstract.
type ExternalSource struct {
	client *metadata.Client
}

// NewExternalSource wraps a metadata client as a candidate source.
func NewExternalSource(client *metadata.Client) *ExternalSource {
	return &ExternalSource{client: client}
}

func (s *ExternalSource) Name() string { return ServiceExternal }

func (s *ExternalSource) Candidates(ctx context.Context, article corpus.Article) ([]metadata.Candidate, error) {
	query := strings.TrimSpace(article.Title + " " + firstWords(article.Abstract, queryWords))
	return s.client.Search(ctx, query)
}

// InternalSource samples other stored articles from the corpus.
type InternalSource struct {
	store *corpus.Store
	limit int
}

// NewInternalSource wraps a corpus store as a candidate source. limit
// caps the sample size; zero means the store default.
func NewInternalSource(store *corpus.Store, limit int) *InternalSource {
	return &InternalSource{store: store, limit: limit}
}

func (s *InternalSource) Name() string { return ServiceInternal }

func (s *InternalSource) Candidates(ctx context.Context, article corpus.Article) ([]metadata.Candidate, error) {
	return s.store.Sample(ctx, article.ID, s.limit)
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
