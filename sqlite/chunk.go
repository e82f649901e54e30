package sqlite

import (
	"context"

	"github.com/fwojciec/helpdex"
)

// Compile-time interface verification.
var _ helpdex.ChunkService = (*ChunkService)(nil)

// ChunkService implements helpdex.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// FindChunksByArticle retrieves the chunks for an article ordered by chunk
// index.
func (s *ChunkService) FindChunksByArticle(ctx context.Context, sourceID string, articleID int64) ([]*helpdex.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, source_id, chunk_index, text, token_count
		FROM chunks
		WHERE source_id = ? AND article_id = ?
		ORDER BY chunk_index
	`, sourceID, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*helpdex.Chunk
	for rows.Next() {
		var chunk helpdex.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.ArticleID, &chunk.SourceID,
			&chunk.ChunkIndex, &chunk.Text, &chunk.TokenCount); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}

	return chunks, rows.Err()
}

// CountChunks returns the number of chunks and stored vectors for a source.
func (s *ChunkService) CountChunks(ctx context.Context, sourceID string) (chunks, vectors int, err error) {
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks WHERE source_id = ?
	`, sourceID).Scan(&chunks); err != nil {
		return 0, 0, err
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunk_vectors
		WHERE rowid IN (SELECT id FROM chunks WHERE source_id = ?)
	`, sourceID).Scan(&vectors); err != nil {
		return 0, 0, err
	}

	return chunks, vectors, nil
}
