package helpdex

import "context"

// DefaultEmbeddingDimensions is the vector size of the default embedding
// model (nomic-embed-text).
const DefaultEmbeddingDimensions = 768

// Embedder computes fixed-dimension vector embeddings via an external
// embedding service.
type Embedder interface {
	// Embed computes the embedding for a single text. Returns EINVALID if
	// the service responds with a vector of unexpected dimensionality, and
	// EUNAVAILABLE if the service cannot be reached.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch computes embeddings for all texts with bounded
	// concurrency, returning vectors in input order. Any single failure
	// aborts the batch; partial results are never returned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Reachable reports whether the embedding service responds at all.
	// Used by preflight checks; never returns an error.
	Reachable(ctx context.Context) bool

	// ModelAvailable reports whether the configured model is present at
	// the service. Used by preflight checks; never returns an error.
	ModelAvailable(ctx context.Context) bool
}
