// Package slog provides logging decorators for helpdex collaborators.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdex"
)

// Ensure LoggingFetcher implements helpdex.ArticleFetcher.
var _ helpdex.ArticleFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps an ArticleFetcher with debug logging.
type LoggingFetcher struct {
	next   helpdex.ArticleFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next helpdex.ArticleFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchAll delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchAll(ctx context.Context, source *helpdex.Source, progress helpdex.FetchProgressFunc) (result *helpdex.FetchResult, err error) {
	defer func(begin time.Time) {
		articles := 0
		if result != nil {
			articles = len(result.Articles)
		}
		f.logger.Info("article fetch",
			"source", source.ID,
			"articles", articles,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchAll(ctx, source, progress)
}
