package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/helpdex"
)

// Ensure LoggingEmbedder implements helpdex.Embedder.
var _ helpdex.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with debug logging of batch work.
type LoggingEmbedder struct {
	next   helpdex.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next helpdex.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder.
func (e *LoggingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.next.Embed(ctx, text)
}

// EmbedBatch delegates to the wrapped embedder and logs the batch.
func (e *LoggingEmbedder) EmbedBatch(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed batch",
			"texts", len(texts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedBatch(ctx, texts)
}

// Reachable delegates to the wrapped embedder.
func (e *LoggingEmbedder) Reachable(ctx context.Context) bool {
	return e.next.Reachable(ctx)
}

// ModelAvailable delegates to the wrapped embedder.
func (e *LoggingEmbedder) ModelAvailable(ctx context.Context) bool {
	return e.next.ModelAvailable(ctx)
}
