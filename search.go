package helpdex

import (
	"context"
	"sort"
	"strings"
)

// Search limits.
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 20
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// SourceIDs restricts results to the given sources. Empty means all.
	SourceIDs []string `json:"sourceIds,omitempty"`

	// Limit is the maximum number of results. Defaults to
	// DefaultSearchLimit and is capped at MaxSearchLimit.
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents one ranked search match.
type SearchResult struct {
	ChunkID   int64   `json:"chunkId"`
	ArticleID int64   `json:"articleId"`
	SourceID  string  `json:"sourceId"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Text      string  `json:"text"`      // whitespace-collapsed passage
	Relevance float64 `json:"relevance"` // 0..1, 1 = identical
}

// SearchService answers free-text queries by nearest-neighbor vector search.
type SearchService interface {
	// Search embeds the query and returns results in descending-relevance
	// order. There are no partial results: embedding or storage failures
	// propagate to the caller.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// Relevance maps a cosine distance d (0 = identical, 2 = opposite) to a
// relevance score in [0, 1], 1 meaning identical.
func Relevance(distance float64) float64 {
	r := 1 - distance/2
	if r < 0 {
		return 0
	}
	return r
}

// DedupByURL retains only the highest-relevance result per article URL and
// re-sorts by descending relevance. It is an optional post-processing step,
// not applied by Search itself.
func DedupByURL(results []SearchResult) []SearchResult {
	best := make(map[string]SearchResult, len(results))
	for _, r := range results {
		if prev, ok := best[r.URL]; !ok || r.Relevance > prev.Relevance {
			best[r.URL] = r
		}
	}
	deduped := make([]SearchResult, 0, len(best))
	for _, r := range best {
		deduped = append(deduped, r)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Relevance > deduped[j].Relevance
	})
	return deduped
}

// CollapseWhitespace collapses all whitespace runs in s to single spaces and
// trims the ends, for single-line display of passage text.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
