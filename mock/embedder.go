package mock

import (
	"context"

	"github.com/fwojciec/helpdex"
)

var _ helpdex.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of helpdex.Embedder.
type Embedder struct {
	EmbedFn          func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFn     func(ctx context.Context, texts []string) ([][]float32, error)
	ReachableFn      func(ctx context.Context) bool
	ModelAvailableFn func(ctx context.Context) bool
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}

func (e *Embedder) Reachable(ctx context.Context) bool {
	return e.ReachableFn(ctx)
}

func (e *Embedder) ModelAvailable(ctx context.Context) bool {
	return e.ModelAvailableFn(ctx)
}
