package helpdex

import (
	"context"
	"time"
)

// RawArticle is one published article as returned by a source's API, before
// normalization.
type RawArticle struct {
	ID        int64
	Title     string
	URL       string
	Body      string // raw HTML
	SectionID int64
	UpdatedAt time.Time
}

// Summary returns the identity+staleness view of the raw article.
func (a *RawArticle) Summary() ArticleSummary {
	return ArticleSummary{ID: a.ID, UpdatedAt: a.UpdatedAt}
}

// FetchResult is the complete current listing for one source.
type FetchResult struct {
	Articles []*RawArticle

	// Sections and Categories map origin IDs to display names. They are
	// best-effort metadata: a failed lookup fetch degrades to an empty map.
	Sections   map[int64]string
	Categories map[int64]string
}

// FetchProgressFunc is called as article pages are fetched, with the count
// of articles retrieved so far.
type FetchProgressFunc func(fetched int)

// ArticleFetcher retrieves the complete, current set of published articles
// for a source, handling pagination, rate limiting, and transient-failure
// retry.
type ArticleFetcher interface {
	FetchAll(ctx context.Context, source *Source, progress FetchProgressFunc) (*FetchResult, error)
}

// Normalizer converts raw article markup into clean, structurally-aware
// plain text.
type Normalizer interface {
	// Normalize maps raw HTML to plain text, preserving reading order and
	// basic structure. Empty input yields an empty string, never an error.
	Normalize(html string) string
}
