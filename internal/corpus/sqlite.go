package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/refcheck/internal/metadata"
)

// ErrArticleNotFound indicates the requested article is not stored.
var ErrArticleNotFound = errors.New("article not found")

// DefaultSampleLimit caps how many corpus articles one plagiarism run
// compares against.
const DefaultSampleLimit = 50

// Store wraps a SQLite database holding the internal article corpus.
type Store struct {
	db *sql.DB
}

// Open opens or creates the corpus database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so sibling stores can share the
// single SQLite connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT,
			content TEXT,
			fingerprint TEXT NOT NULL,
			added_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_fingerprint ON articles(fingerprint);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Put inserts or wholesale-replaces an article. The fingerprint is
// recomputed from the stored text.
func (s *Store) Put(ctx context.Context, a Article) error {
	if a.ID == "" {
		return fmt.Errorf("article ID is required")
	}
	a.Fingerprint = Fingerprint(a.Title, a.Abstract, a.Content)
	if a.AddedAt.IsZero() {
		a.AddedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO articles (id, title, abstract, content, fingerprint, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Abstract, a.Content, a.Fingerprint, a.AddedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing article %s: %w", a.ID, err)
	}
	return nil
}

// Article fetches one article by ID.
func (s *Store) Article(ctx context.Context, id string) (Article, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, abstract, content, fingerprint, added_at
		FROM articles WHERE id = ?`, id)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrArticleNotFound
	}
	if err != nil {
		return Article{}, fmt.Errorf("fetching article %s: %w", id, err)
	}
	return a, nil
}

// List returns all stored articles ordered by ID.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, abstract, content, fingerprint, added_at
		FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Sample returns up to limit stored articles, excluding the given ID,
// shaped as candidate sources for similarity comparison. The cap keeps
// a plagiarism run bounded on large corpora.
func (s *Store) Sample(ctx context.Context, excludeID string, limit int) ([]metadata.Candidate, error) {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, abstract, content, fingerprint, added_at
		FROM articles WHERE id != ? ORDER BY added_at DESC LIMIT ?`,
		excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("sampling corpus: %w", err)
	}
	defer rows.Close()

	var candidates []metadata.Candidate
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		candidates = append(candidates, metadata.Candidate{
			SourceID: a.ID,
			Title:    a.Title,
			Abstract: a.Abstract + " " + a.Content,
		})
	}
	return candidates, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (Article, error) {
	var a Article
	var addedAt string
	if err := row.Scan(&a.ID, &a.Title, &a.Abstract, &a.Content, &a.Fingerprint, &addedAt); err != nil {
		return Article{}, err
	}
	if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
		a.AddedAt = t
	}
	return a, nil
}
