package helpdex

import (
	"context"
	"time"
)

// Chunk represents one fixed-budget text passage derived from an article,
// the unit of embedding and retrieval. Chunks are owned exclusively by their
// article and are always deleted and recreated as a whole set when the
// article is reprocessed, never patched in place.
type Chunk struct {
	ID         int64  `json:"id"`
	ArticleID  int64  `json:"articleId"`
	SourceID   string `json:"sourceId"`
	ChunkIndex int    `json:"chunkIndex"` // 0-based ordering within the article
	Text       string `json:"text"`       // title-prefixed passage
	TokenCount int    `json:"tokenCount"` // estimated
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ArticleID == 0 {
		return Errorf(EINVALID, "chunk article ID required")
	}
	if c.SourceID == "" {
		return Errorf(EINVALID, "chunk source ID required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	return nil
}

// ChunkService represents read access to stored chunks.
type ChunkService interface {
	// FindChunksByArticle retrieves the chunks for an article ordered by
	// chunk index.
	FindChunksByArticle(ctx context.Context, sourceID string, articleID int64) ([]*Chunk, error)

	// CountChunks returns the number of chunks and the number of stored
	// vectors for a source. The two are equal whenever no sync commit is in
	// flight.
	CountChunks(ctx context.Context, sourceID string) (chunks, vectors int, err error)
}

// ArticleUpsert is one reprocessed article together with its full
// replacement chunk set and the matching vectors, in chunk-index order.
type ArticleUpsert struct {
	Article *Article
	Chunks  []*Chunk
	Vectors [][]float32
}

// SyncCommit is the unit of change for one source's sync pass. It is applied
// atomically: article upserts with delete-then-insert chunk replacement,
// orphaned article deletions, and the last-synced marker advance all happen
// in a single transaction.
type SyncCommit struct {
	SourceID   string
	Upserts    []ArticleUpsert
	DeletedIDs []int64
	SyncedAt   time.Time
}

// SyncStore is the storage surface consumed by the sync coordinator.
type SyncStore interface {
	// ArticleSummaries retrieves the {id, updatedAt} pairs for a source.
	ArticleSummaries(ctx context.Context, sourceID string) ([]ArticleSummary, error)

	// ApplySyncCommit applies one source's sync pass in a single
	// transaction. A failure leaves the prior consistent state intact and
	// the last-synced marker unadvanced.
	ApplySyncCommit(ctx context.Context, commit *SyncCommit) error
}

// ChunkMatch is one raw nearest-neighbor result from the vector index, with
// the owning article's title and URL attached.
type ChunkMatch struct {
	Chunk    Chunk   `json:"chunk"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Distance float64 `json:"distance"` // cosine distance, 0 (identical) to 2 (opposite)
}

// VectorIndex performs k-nearest-neighbor lookups over stored chunk vectors.
type VectorIndex interface {
	// SearchSimilar returns up to limit chunks ordered by ascending cosine
	// distance from the embedding, optionally restricted to the given
	// source IDs.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, sourceIDs []string) ([]ChunkMatch, error)
}
