package mock

import (
	"context"

	"github.com/fwojciec/helpdex"
)

var _ helpdex.ArticleFetcher = (*ArticleFetcher)(nil)

// ArticleFetcher is a mock implementation of helpdex.ArticleFetcher.
type ArticleFetcher struct {
	FetchAllFn func(ctx context.Context, source *helpdex.Source, progress helpdex.FetchProgressFunc) (*helpdex.FetchResult, error)
}

func (f *ArticleFetcher) FetchAll(ctx context.Context, source *helpdex.Source, progress helpdex.FetchProgressFunc) (*helpdex.FetchResult, error) {
	return f.FetchAllFn(ctx, source, progress)
}

var _ helpdex.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of helpdex.Normalizer.
type Normalizer struct {
	NormalizeFn func(html string) string
}

func (n *Normalizer) Normalize(html string) string {
	return n.NormalizeFn(html)
}
