package mock

import (
	"context"

	"github.com/fwojciec/helpdex"
)

var _ helpdex.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of helpdex.ArticleService.
type ArticleService struct {
	FindArticlesBySourceFn func(ctx context.Context, sourceID string) ([]*helpdex.Article, error)
	ArticleSummariesFn     func(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error)
}

func (s *ArticleService) FindArticlesBySource(ctx context.Context, sourceID string) ([]*helpdex.Article, error) {
	return s.FindArticlesBySourceFn(ctx, sourceID)
}

func (s *ArticleService) ArticleSummaries(ctx context.Context, sourceID string) ([]helpdex.ArticleSummary, error) {
	return s.ArticleSummariesFn(ctx, sourceID)
}

var _ helpdex.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of helpdex.ChunkService.
type ChunkService struct {
	FindChunksByArticleFn func(ctx context.Context, sourceID string, articleID int64) ([]*helpdex.Chunk, error)
	CountChunksFn         func(ctx context.Context, sourceID string) (int, int, error)
}

func (s *ChunkService) FindChunksByArticle(ctx context.Context, sourceID string, articleID int64) ([]*helpdex.Chunk, error) {
	return s.FindChunksByArticleFn(ctx, sourceID, articleID)
}

func (s *ChunkService) CountChunks(ctx context.Context, sourceID string) (int, int, error) {
	return s.CountChunksFn(ctx, sourceID)
}
