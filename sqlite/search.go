package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/helpdex"
)

// Compile-time interface verification.
var _ helpdex.VectorIndex = (*VectorIndex)(nil)

// VectorIndex implements helpdex.VectorIndex on the chunk_vectors vec0
// table. The table is declared with distance_metric=cosine, so MATCH
// distances are cosine distances in [0, 2].
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// SearchSimilar returns up to limit chunks ordered by ascending cosine
// distance from the embedding. The knn lookup requests limit candidates;
// the optional source filter is applied by the join, so a filtered query
// may return fewer than limit rows.
func (s *VectorIndex) SearchSimilar(ctx context.Context, embedding []float32, limit int, sourceIDs []string) ([]helpdex.ChunkMatch, error) {
	if len(embedding) != s.db.Dimensions {
		return nil, helpdex.Errorf(helpdex.EINVALID,
			"query vector dimension %d, want %d", len(embedding), s.db.Dimensions)
	}
	if limit <= 0 {
		limit = helpdex.DefaultSearchLimit
	}

	var query strings.Builder
	args := []any{encodeVector(embedding), limit}

	query.WriteString(`
		SELECT c.id, c.article_id, c.source_id, c.chunk_index, c.text, c.token_count,
		       a.title, a.url, v.distance
		FROM (
			SELECT rowid, distance
			FROM chunk_vectors
			WHERE embedding MATCH ? AND k = ?
		) v
		JOIN chunks c ON c.id = v.rowid
		JOIN articles a ON a.id = c.article_id AND a.source_id = c.source_id
	`)

	if len(sourceIDs) > 0 {
		query.WriteString(" WHERE c.source_id IN (" + placeholders(len(sourceIDs)) + ")")
		for _, id := range sourceIDs {
			args = append(args, id)
		}
	}

	query.WriteString(" ORDER BY v.distance")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []helpdex.ChunkMatch
	for rows.Next() {
		var m helpdex.ChunkMatch
		if err := rows.Scan(&m.Chunk.ID, &m.Chunk.ArticleID, &m.Chunk.SourceID,
			&m.Chunk.ChunkIndex, &m.Chunk.Text, &m.Chunk.TokenCount,
			&m.Title, &m.URL, &m.Distance); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}
