package plagiarism

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrReportNotFound indicates no report has been persisted for the
// requested article.
var ErrReportNotFound = errors.New("plagiarism report not found")

// ReportStore persists completed reports in SQLite, one row per
// article, replaced wholesale on every save. It shares the corpus
// store's connection.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore prepares the reports table on an open database
// handle.
func NewReportStore(db *sql.DB) (*ReportStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS plagiarism_reports (
			article_id TEXT PRIMARY KEY,
			report_json TEXT NOT NULL,
			generated_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating reports schema: %w", err)
	}
	return &ReportStore{db: db}, nil
}

// Save stores the report, replacing any previous report for the same
// article in a single statement so readers never observe a partial
// write.
func (s *ReportStore) Save(ctx context.Context, r Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO plagiarism_reports (article_id, report_json, generated_at)
		VALUES (?, ?, ?)`,
		r.ArticleID, string(data), r.GeneratedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing report for %s: %w", r.ArticleID, err)
	}
	return nil
}

// Get returns the last persisted report for an article.
func (s *ReportStore) Get(ctx context.Context, articleID string) (Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT report_json FROM plagiarism_reports WHERE article_id = ?`,
		articleID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrReportNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("fetching report for %s: %w", articleID, err)
	}

	var r Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return Report{}, fmt.Errorf("decoding report for %s: %w", articleID, err)
	}
	return r, nil
}
