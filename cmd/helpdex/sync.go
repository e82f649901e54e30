package main

import (
	"fmt"

	"github.com/fwojciec/helpdex"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	sources, err := c.resolveSources(deps)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No enabled sources to sync. Use 'helpdex source add' to create one.")
		return nil
	}

	results := deps.Syncer.SyncAll(deps.Ctx, sources, c.Full, func(sourceID string, p helpdex.Progress) {
		renderProgress(deps, sourceID, p)
	})

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(deps.Stderr, "error: sync %s: %s\n", r.SourceID, helpdex.ErrorMessage(r.Err))
		case r.NoOp():
			fmt.Fprintf(deps.Stdout, "%s: up to date (%d articles)\n", r.SourceID, r.ArticlesFetched)
		default:
			fmt.Fprintf(deps.Stdout, "%s: %d articles updated, %d deleted, %d chunks indexed\n",
				r.SourceID, r.ArticlesUpdated, r.ArticlesDeleted, r.ChunksCreated)
		}
	}

	if failed > 0 {
		return helpdex.Errorf(helpdex.EINTERNAL, "%d of %d sources failed to sync", failed, len(results))
	}
	return nil
}

// resolveSources returns the sources to sync: the explicitly requested IDs,
// or every enabled source.
func (c *SyncCmd) resolveSources(deps *Dependencies) ([]*helpdex.Source, error) {
	if len(c.Source) == 0 {
		enabled := true
		sources, err := deps.Sources.FindSources(deps.Ctx, helpdex.SourceFilter{Enabled: &enabled})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
			return nil, err
		}
		return sources, nil
	}

	sources := make([]*helpdex.Source, 0, len(c.Source))
	for _, id := range c.Source {
		source, err := deps.Sources.FindSourceByID(deps.Ctx, id)
		if err != nil {
			if helpdex.ErrorCode(err) == helpdex.ENOTFOUND {
				fmt.Fprintf(deps.Stderr, "error: source %q not found. Use 'helpdex source list' to see configured sources.\n", id)
			} else {
				fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
			}
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// renderProgress prints phase transitions and the fetch counter.
func renderProgress(deps *Dependencies, sourceID string, p helpdex.Progress) {
	switch {
	case p.Message == "nothing to do":
		// Summarized after the run.
	case p.Phase == helpdex.PhaseFetching && p.Current > 0:
		fmt.Fprintf(deps.Stdout, "%s: fetched %d articles\n", sourceID, p.Current)
	case p.Phase == helpdex.PhaseEmbedding && p.Current == 0:
		fmt.Fprintf(deps.Stdout, "%s: embedding %d chunks\n", sourceID, p.Total)
	case p.Phase == helpdex.PhaseStoring && p.Total > 0:
		fmt.Fprintf(deps.Stdout, "%s: storing %d articles\n", sourceID, p.Total)
	}
}
