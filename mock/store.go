package mock

import (
	"context"

	"github.com/fwojciec/helpdex"
)

var _ helpdex.SyncStore = (*SyncStore)(nil)

// SyncStore is a mock implementation of helpdex.SyncStore.
type SyncStore struct {
	ArticleSummariesFn func(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error)
	ApplySyncCommitFn  func(ctx context.Context, commit *helpdex.SyncCommit) error
}

func (s *SyncStore) ArticleSummaries(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error) {
	return s.ArticleSummariesFn(ctx, sourceID)
}

func (s *SyncStore) ApplySyncCommit(ctx context.Context, commit *helpdex.SyncCommit) error {
	return s.ApplySyncCommitFn(ctx, commit)
}

var _ helpdex.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of helpdex.VectorIndex.
type VectorIndex struct {
	SearchSimilarFn func(ctx context.Context, embedding []float32, limit int, sourceIDs []string) ([]helpdex.ChunkMatch, error)
}

func (v *VectorIndex) SearchSimilar(ctx context.Context, embedding []float32, limit int, sourceIDs []string) ([]helpdex.ChunkMatch, error) {
	return v.SearchSimilarFn(ctx, embedding, limit, sourceIDs)
}
