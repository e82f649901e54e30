package helpdex

import (
	"context"
	"time"
)

// Article represents one origin document. Identity is the pair
// (ID, SourceID); IDs are assigned by the origin and are only unique within
// a source.
type Article struct {
	ID           int64     `json:"id"`
	SourceID     string    `json:"sourceId"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	SectionName  string    `json:"sectionName,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	ContentHash  string    `json:"contentHash"`
	UpdatedAt    time.Time `json:"updatedAt"` // origin timestamp
	SyncedAt     time.Time `json:"syncedAt"`  // local processing timestamp
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.ID == 0 {
		return Errorf(EINVALID, "article ID required")
	}
	if a.SourceID == "" {
		return Errorf(EINVALID, "article source ID required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// ArticleSummary is the minimal identity+staleness view of an article used
// for diffing a fresh origin listing against local state.
type ArticleSummary struct {
	ID        int64     `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticleService represents read access to stored articles.
type ArticleService interface {
	// FindArticlesBySource retrieves all articles for a source, ordered by ID.
	FindArticlesBySource(ctx context.Context, sourceID string) ([]*Article, error)

	// ArticleSummaries retrieves the {id, updatedAt} pairs for a source,
	// used by the sync diff.
	ArticleSummaries(ctx context.Context, sourceID string) ([]ArticleSummary, error)
}

// ArticleDiff is the outcome of comparing a fresh origin listing against
// local state for one source.
type ArticleDiff struct {
	// Stale holds the IDs of fetched articles that need reprocessing:
	// either absent locally or with an origin timestamp strictly newer than
	// the stored one.
	Stale []int64

	// Deleted holds the IDs of locally stored articles absent from the
	// fresh listing. They are removed, not reprocessed.
	Deleted []int64
}

// IsZero reports whether the diff requires no work.
func (d ArticleDiff) IsZero() bool {
	return len(d.Stale) == 0 && len(d.Deleted) == 0
}

// DiffArticles compares freshly fetched article summaries against the
// locally stored ones for the same source. An article is stale if it does
// not exist locally or if its origin timestamp is strictly newer than the
// stored value. Local articles absent from the fresh set are flagged for
// deletion. If full is true, every fetched article is treated as stale
// regardless of timestamps.
func DiffArticles(fetched, local []ArticleSummary, full bool) ArticleDiff {
	stored := make(map[int64]time.Time, len(local))
	for _, s := range local {
		stored[s.ID] = s.UpdatedAt
	}

	var diff ArticleDiff
	present := make(map[int64]struct{}, len(fetched))
	for _, f := range fetched {
		present[f.ID] = struct{}{}
		updatedAt, ok := stored[f.ID]
		if full || !ok || f.UpdatedAt.After(updatedAt) {
			diff.Stale = append(diff.Stale, f.ID)
		}
	}

	for _, s := range local {
		if _, ok := present[s.ID]; !ok {
			diff.Deleted = append(diff.Deleted, s.ID)
		}
	}

	return diff
}
