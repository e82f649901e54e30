package sqlite

import (
	"context"

	"github.com/fwojciec/helpdex"
)

// Compile-time interface verification.
var _ helpdex.ArticleService = (*ArticleService)(nil)

// ArticleService implements helpdex.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// FindArticlesBySource retrieves all articles for a source, ordered by ID.
func (s *ArticleService) FindArticlesBySource(ctx context.Context, sourceID string) ([]*helpdex.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, title, url, section_name, category_name, content_hash, updated_at, synced_at
		FROM articles
		WHERE source_id = ?
		ORDER BY id
	`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*helpdex.Article
	for rows.Next() {
		var article helpdex.Article
		var updatedAt, syncedAt string

		if err := rows.Scan(&article.ID, &article.SourceID, &article.Title, &article.URL,
			&article.SectionName, &article.CategoryName, &article.ContentHash,
			&updatedAt, &syncedAt); err != nil {
			return nil, err
		}

		if article.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		if article.SyncedAt, err = parseRFC3339(syncedAt, "synced_at"); err != nil {
			return nil, err
		}

		articles = append(articles, &article)
	}

	return articles, rows.Err()
}

// ArticleSummaries retrieves the {id, updatedAt} pairs for a source, used by
// the sync diff.
func (s *ArticleService) ArticleSummaries(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, updated_at FROM articles WHERE source_id = ? ORDER BY id
	`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []helpdex.ArticleSummary
	for rows.Next() {
		var summary helpdex.ArticleSummary
		var updatedAt string

		if err := rows.Scan(&summary.ID, &updatedAt); err != nil {
			return nil, err
		}
		if summary.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}
