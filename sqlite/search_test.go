package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_SearchSimilar(t *testing.T) {
	t.Parallel()

	updatedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	syncedAt := updatedAt.Add(time.Hour)

	seed := func(t *testing.T, db *sqlite.DB) {
		t.Helper()
		sync := sqlite.NewSyncService(db)
		ctx := context.Background()

		createTestSource(t, db, "acme")
		createTestSource(t, db, "beta")
		require.NoError(t, sync.ApplySyncCommit(ctx, &helpdex.SyncCommit{
			SourceID: "acme",
			Upserts:  []helpdex.ArticleUpsert{testUpsert("acme", 1, updatedAt, testVector(0), testVector(1))},
			SyncedAt: syncedAt,
		}))
		require.NoError(t, sync.ApplySyncCommit(ctx, &helpdex.SyncCommit{
			SourceID: "beta",
			Upserts:  []helpdex.ArticleUpsert{testUpsert("beta", 1, updatedAt, testVector(2))},
			SyncedAt: syncedAt,
		}))
	}

	t.Run("orders by ascending cosine distance", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		seed(t, db)
		index := sqlite.NewVectorIndex(db)

		matches, err := index.SearchSimilar(context.Background(), testVector(0), 3, nil)
		require.NoError(t, err)
		require.Len(t, matches, 3)

		assert.InDelta(t, 0, matches[0].Distance, 1e-6, "identical vector has distance 0")
		assert.Equal(t, "acme", matches[0].Chunk.SourceID)
		assert.Equal(t, 0, matches[0].Chunk.ChunkIndex)
		assert.Equal(t, "Article", matches[0].Title)
		assert.NotEmpty(t, matches[0].URL)

		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i].Distance, matches[i-1].Distance)
		}
	})

	t.Run("restricts to the given sources", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		seed(t, db)
		index := sqlite.NewVectorIndex(db)

		matches, err := index.SearchSimilar(context.Background(), testVector(2), 3, []string{"beta"})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		for _, m := range matches {
			assert.Equal(t, "beta", m.Chunk.SourceID)
		}
	})

	t.Run("rejects wrong query dimension", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		index := sqlite.NewVectorIndex(db)

		_, err := index.SearchSimilar(context.Background(), []float32{1, 0}, 3, nil)
		assert.Equal(t, helpdex.EINVALID, helpdex.ErrorCode(err))
	})

	t.Run("empty store yields no matches", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		index := sqlite.NewVectorIndex(db)

		matches, err := index.SearchSimilar(context.Background(), testVector(0), 5, nil)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
