// Package syncer coordinates the incremental sync pipeline for help center
// sources: fetch, staleness diff, normalize, chunk, embed, and a single
// transactional commit per source.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/fwojciec/helpdex"
)

// Syncer orchestrates one sync pass per source. All dependency fields must
// be set before use.
type Syncer struct {
	Fetcher    helpdex.ArticleFetcher
	Normalizer helpdex.Normalizer
	Embedder   helpdex.Embedder
	Store      helpdex.SyncStore

	// ChunkSize and ChunkOverlap configure the chunker, in estimated
	// tokens. Zero values fall back to the package defaults.
	ChunkSize    int
	ChunkOverlap int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes one source's sync pass.
type Result struct {
	SourceID        string
	ArticlesFetched int
	ArticlesUpdated int
	ArticlesDeleted int
	ChunksCreated   int

	// Err records the failure for this source in a multi-source run.
	Err error
}

// NoOp reports whether the pass found nothing to change.
func (r *Result) NoOp() bool {
	return r.Err == nil && r.ArticlesUpdated == 0 && r.ArticlesDeleted == 0
}

// SyncAll syncs the given sources one at a time, in order. A failing source
// does not abort the run; its failure is recorded on its Result. A canceled
// context stops the run after the current source.
func (s *Syncer) SyncAll(ctx context.Context, sources []*helpdex.Source, full bool, progress func(sourceID string, p helpdex.Progress)) []*Result {
	results := make([]*Result, 0, len(sources))
	for _, source := range sources {
		var pf helpdex.ProgressFunc
		if progress != nil {
			id := source.ID
			pf = func(p helpdex.Progress) { progress(id, p) }
		}

		result, err := s.SyncSource(ctx, source, full, pf)
		if err != nil {
			result = &Result{SourceID: source.ID, Err: err}
		}
		results = append(results, result)

		if ctx.Err() != nil {
			break
		}
	}
	return results
}

// SyncSource runs one full sync pass for a source: fetch the current origin
// listing, diff it against local state, reprocess stale articles, and commit
// the changes in a single transaction that also advances the source's
// last-synced marker. If the diff is empty no embedding calls are made and
// no transaction is opened.
func (s *Syncer) SyncSource(ctx context.Context, source *helpdex.Source, full bool, progress helpdex.ProgressFunc) (*Result, error) {
	report := func(p helpdex.Progress) {
		if progress != nil {
			progress(p)
		}
	}

	report(helpdex.Progress{Phase: helpdex.PhaseFetching, Message: "fetching article listing"})
	fetched, err := s.Fetcher.FetchAll(ctx, source, func(n int) {
		report(helpdex.Progress{Phase: helpdex.PhaseFetching, Current: n})
	})
	if err != nil {
		return nil, fmt.Errorf("sync source %q: %w", source.ID, err)
	}

	local, err := s.Store.ArticleSummaries(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("sync source %q: %w", source.ID, err)
	}

	summaries := make([]helpdex.ArticleSummary, len(fetched.Articles))
	for i, a := range fetched.Articles {
		summaries[i] = a.Summary()
	}
	diff := helpdex.DiffArticles(summaries, local, full)

	result := &Result{SourceID: source.ID, ArticlesFetched: len(fetched.Articles)}
	if diff.IsZero() {
		report(helpdex.Progress{Phase: helpdex.PhaseStoring, Message: "nothing to do"})
		return result, nil
	}

	stale := make(map[int64]struct{}, len(diff.Stale))
	for _, id := range diff.Stale {
		stale[id] = struct{}{}
	}

	syncedAt := s.now().UTC()
	var upserts []helpdex.ArticleUpsert
	var texts []string

	current, total := 0, len(stale)
	for _, a := range fetched.Articles {
		if _, ok := stale[a.ID]; !ok {
			continue
		}
		current++

		report(helpdex.Progress{Phase: helpdex.PhaseParsing, Current: current, Total: total, Message: a.Title})
		text := s.Normalizer.Normalize(a.Body)

		report(helpdex.Progress{Phase: helpdex.PhaseChunking, Current: current, Total: total, Message: a.Title})
		chunks := helpdex.ChunkArticle(a.Title, text, helpdex.ChunkOptions{
			TargetSize: s.ChunkSize,
			Overlap:    s.ChunkOverlap,
		})

		chunkPtrs := make([]*helpdex.Chunk, len(chunks))
		for i := range chunks {
			chunks[i].ArticleID = a.ID
			chunks[i].SourceID = source.ID
			chunkPtrs[i] = &chunks[i]
			texts = append(texts, chunks[i].Text)
		}

		upserts = append(upserts, helpdex.ArticleUpsert{
			Article: &helpdex.Article{
				ID:          a.ID,
				SourceID:    source.ID,
				Title:       a.Title,
				URL:         a.URL,
				SectionName: fetched.Sections[a.SectionID],
				// TODO: category names are keyed by section ID here, which
				// makes them duplicate the section name; resolving this
				// needs a category_id carried on the article listing.
				CategoryName: fetched.Categories[a.SectionID],
				ContentHash:  contentHash(a.Title, text),
				UpdatedAt:    a.UpdatedAt,
				SyncedAt:     syncedAt,
			},
			Chunks: chunkPtrs,
		})
	}

	report(helpdex.Progress{Phase: helpdex.PhaseEmbedding, Current: 0, Total: len(texts)})
	vectors, err := s.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("sync source %q: %w", source.ID, err)
	}
	report(helpdex.Progress{Phase: helpdex.PhaseEmbedding, Current: len(texts), Total: len(texts)})

	offset := 0
	for i := range upserts {
		n := len(upserts[i].Chunks)
		upserts[i].Vectors = vectors[offset : offset+n]
		offset += n
	}

	report(helpdex.Progress{Phase: helpdex.PhaseStoring, Current: len(upserts), Total: len(upserts)})
	commit := &helpdex.SyncCommit{
		SourceID:   source.ID,
		Upserts:    upserts,
		DeletedIDs: diff.Deleted,
		SyncedAt:   syncedAt,
	}
	if err := s.Store.ApplySyncCommit(ctx, commit); err != nil {
		return nil, fmt.Errorf("sync source %q: %w", source.ID, err)
	}

	result.ArticlesUpdated = len(upserts)
	result.ArticlesDeleted = len(diff.Deleted)
	result.ChunksCreated = len(texts)
	return result, nil
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// contentHash fingerprints an article's title and normalized text.
func contentHash(title, text string) string {
	h := xxhash.New()
	_, _ = h.WriteString(title)
	_, _ = h.WriteString("\n")
	_, _ = h.WriteString(text)
	return fmt.Sprintf("%016x", h.Sum64())
}
