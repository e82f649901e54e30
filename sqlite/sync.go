package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/helpdex"
)

// Compile-time interface verification.
var _ helpdex.SyncStore = (*SyncService)(nil)

// SyncService implements helpdex.SyncStore using SQLite. A sync commit is a
// single transaction: article upserts with delete-then-insert chunk
// replacement, orphaned article deletions, and the last-synced marker
// advance either all become visible together or not at all.
type SyncService struct {
	db       *DB
	articles *ArticleService
}

// NewSyncService creates a new SyncService.
func NewSyncService(db *DB) *SyncService {
	return &SyncService{db: db, articles: NewArticleService(db)}
}

// ArticleSummaries retrieves the {id, updatedAt} pairs for a source.
func (s *SyncService) ArticleSummaries(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error) {
	return s.articles.ArticleSummaries(ctx, sourceID)
}

// ApplySyncCommit applies one source's sync pass in a single transaction.
func (s *SyncService) ApplySyncCommit(ctx context.Context, commit *helpdex.SyncCommit) error {
	if commit.SourceID == "" {
		return helpdex.Errorf(helpdex.EINVALID, "sync commit source ID required")
	}
	for _, up := range commit.Upserts {
		if err := up.Article.Validate(); err != nil {
			return err
		}
		if len(up.Chunks) != len(up.Vectors) {
			return helpdex.Errorf(helpdex.EINVALID,
				"article %d: %d chunks but %d vectors", up.Article.ID, len(up.Chunks), len(up.Vectors))
		}
		for _, v := range up.Vectors {
			if len(v) != s.db.Dimensions {
				return helpdex.Errorf(helpdex.EINVALID,
					"article %d: vector dimension %d, want %d", up.Article.ID, len(v), s.db.Dimensions)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, up := range commit.Upserts {
		if err := s.replaceArticle(ctx, tx, commit.SourceID, up, commit.SyncedAt); err != nil {
			return err
		}
	}

	for _, articleID := range commit.DeletedIDs {
		if err := deleteArticle(ctx, tx, commit.SourceID, articleID); err != nil {
			return err
		}
	}

	// Advancing the marker is the final statement of the transaction, so a
	// mid-commit failure leaves it unadvanced.
	result, err := tx.ExecContext(ctx, `
		UPDATE sources SET last_synced_at = ? WHERE id = ?
	`, commit.SyncedAt.UTC().Format(time.RFC3339), commit.SourceID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return helpdex.Errorf(helpdex.ENOTFOUND, "source %q not found", commit.SourceID)
	}

	return tx.Commit()
}

// replaceArticle upserts the article row and replaces its chunk set
// wholesale. Chunks are never patched in place: the old set (and its
// vectors) is deleted before the new set is inserted, keeping chunk indices
// contiguous and vectors paired.
func (s *SyncService) replaceArticle(ctx context.Context, tx *sql.Tx, sourceID string, up helpdex.ArticleUpsert, syncedAt time.Time) error {
	article := up.Article

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chunk_vectors
		WHERE rowid IN (SELECT id FROM chunks WHERE source_id = ? AND article_id = ?)
	`, sourceID, article.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chunks WHERE source_id = ? AND article_id = ?
	`, sourceID, article.ID); err != nil {
		return err
	}

	article.SyncedAt = syncedAt
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO articles (id, source_id, title, url, section_name, category_name, content_hash, updated_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, source_id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			section_name = excluded.section_name,
			category_name = excluded.category_name,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at
	`, article.ID, sourceID, article.Title, article.URL, article.SectionName, article.CategoryName,
		article.ContentHash, article.UpdatedAt.UTC().Format(time.RFC3339),
		syncedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for i, chunk := range up.Chunks {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (article_id, source_id, chunk_index, text, token_count)
			VALUES (?, ?, ?, ?, ?)
		`, article.ID, sourceID, chunk.ChunkIndex, chunk.Text, chunk.TokenCount)
		if err != nil {
			return err
		}

		chunkID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		chunk.ID = chunkID
		chunk.ArticleID = article.ID
		chunk.SourceID = sourceID

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunk_vectors (rowid, embedding) VALUES (?, ?)
		`, chunkID, encodeVector(up.Vectors[i])); err != nil {
			return err
		}
	}

	return nil
}

// deleteArticle removes an article no longer present upstream, with its
// chunks and vectors.
func deleteArticle(ctx context.Context, tx *sql.Tx, sourceID string, articleID int64) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chunk_vectors
		WHERE rowid IN (SELECT id FROM chunks WHERE source_id = ? AND article_id = ?)
	`, sourceID, articleID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM articles WHERE source_id = ? AND id = ?
	`, sourceID, articleID)
	return err
}
