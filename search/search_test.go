package search_test

import (
	"context"
	"testing"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/mock"
	"github.com/fwojciec/helpdex/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(chunkID int64, distance float64) helpdex.ChunkMatch {
	return helpdex.ChunkMatch{
		Chunk: helpdex.Chunk{
			ID:        chunkID,
			ArticleID: 1,
			SourceID:  "acme",
			Text:      "# Title\n\nSome   passage\ntext.",
		},
		Title:    "Title",
		URL:      "https://support.acme.test/a/1",
		Distance: distance,
	}
}

func testEngine(matches []helpdex.ChunkMatch, gotLimit *int, gotSources *[]string) *search.Engine {
	return &search.Engine{
		Embedder: &mock.Embedder{
			EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{1, 0}, nil
			},
		},
		Index: &mock.VectorIndex{
			SearchSimilarFn: func(ctx context.Context, embedding []float32, limit int, sourceIDs []string) ([]helpdex.ChunkMatch, error) {
				if gotLimit != nil {
					*gotLimit = limit
				}
				if gotSources != nil {
					*gotSources = sourceIDs
				}
				if limit < len(matches) {
					return matches[:limit], nil
				}
				return matches, nil
			},
		},
	}
}

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	t.Run("maps distance to relevance and collapses text", func(t *testing.T) {
		t.Parallel()

		e := testEngine([]helpdex.ChunkMatch{match(1, 0.2)}, nil, nil)
		results, err := e.Search(context.Background(), "how do refunds work", helpdex.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.InDelta(t, 0.9, results[0].Relevance, 1e-9)
		assert.Equal(t, "# Title Some passage text.", results[0].Text)
		assert.Equal(t, "Title", results[0].Title)
		assert.Equal(t, "https://support.acme.test/a/1", results[0].URL)
	})

	t.Run("identical vector yields relevance 1", func(t *testing.T) {
		t.Parallel()

		e := testEngine([]helpdex.ChunkMatch{match(1, 0)}, nil, nil)
		results, err := e.Search(context.Background(), "q", helpdex.SearchOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1.0, results[0].Relevance)
	})

	t.Run("applies default limit", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		e := testEngine(nil, &gotLimit, nil)
		_, err := e.Search(context.Background(), "q", helpdex.SearchOptions{})
		require.NoError(t, err)
		assert.Equal(t, helpdex.DefaultSearchLimit, gotLimit)
	})

	t.Run("clamps limit to the hard cap", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		e := testEngine(nil, &gotLimit, nil)
		_, err := e.Search(context.Background(), "q", helpdex.SearchOptions{Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, helpdex.MaxSearchLimit, gotLimit)
	})

	t.Run("passes source filter through", func(t *testing.T) {
		t.Parallel()

		var gotSources []string
		e := testEngine(nil, nil, &gotSources)
		_, err := e.Search(context.Background(), "q", helpdex.SearchOptions{SourceIDs: []string{"acme", "globex"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"acme", "globex"}, gotSources)
	})

	t.Run("empty query is invalid", func(t *testing.T) {
		t.Parallel()

		e := testEngine(nil, nil, nil)
		_, err := e.Search(context.Background(), "", helpdex.SearchOptions{})
		require.Error(t, err)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
	})

	t.Run("embedding failure propagates", func(t *testing.T) {
		t.Parallel()

		e := testEngine(nil, nil, nil)
		e.Embedder = &mock.Embedder{
			EmbedFn: func(ctx context.Context, text string) ([]float32, error) {
				return nil, helpdex.Errorf(helpdex.EUNAVAILABLE, "embedding service unreachable")
			},
		}
		_, err := e.Search(context.Background(), "q", helpdex.SearchOptions{})
		require.Error(t, err)
		assert.Equal(t, helpdex.EUNAVAILABLE, helpdex.ErrorCode(err))
	})
}
