// Package search implements free-text similarity search over indexed chunks.
package search

import (
	"context"
	"fmt"

	"github.com/fwojciec/helpdex"
)

// Ensure Engine implements helpdex.SearchService at compile time.
var _ helpdex.SearchService = (*Engine)(nil)

// Engine answers queries by embedding them and running a nearest-neighbor
// lookup against the vector index. Both fields must be set before use.
type Engine struct {
	Embedder helpdex.Embedder
	Index    helpdex.VectorIndex
}

// Search embeds the query and returns up to opts.Limit results in
// descending-relevance order. A zero limit falls back to the default; limits
// above the hard cap are clamped. Embedding or index failures propagate to
// the caller; there are no partial results.
func (e *Engine) Search(ctx context.Context, query string, opts helpdex.SearchOptions) ([]helpdex.SearchResult, error) {
	if query == "" {
		return nil, helpdex.Errorf(helpdex.EINVALID, "search query required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = helpdex.DefaultSearchLimit
	}
	if limit > helpdex.MaxSearchLimit {
		limit = helpdex.MaxSearchLimit
	}

	embedding, err := e.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := e.Index.SearchSimilar(ctx, embedding, limit, opts.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup: %w", err)
	}

	results := make([]helpdex.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = helpdex.SearchResult{
			ChunkID:   m.Chunk.ID,
			ArticleID: m.Chunk.ArticleID,
			SourceID:  m.Chunk.SourceID,
			Title:     m.Title,
			URL:       m.URL,
			Text:      helpdex.CollapseWhitespace(m.Chunk.Text),
			Relevance: helpdex.Relevance(m.Distance),
		}
	}
	return results, nil
}
