package main

import (
	"fmt"

	"github.com/fwojciec/helpdex"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Database: %s\n", deps.DB.Path())
	fmt.Fprintf(deps.Stdout, "Embedding service: %s (model %s)\n",
		deps.Config.Ollama.BaseURL, deps.Config.Ollama.Model)

	if deps.Embedder.Reachable(deps.Ctx) {
		fmt.Fprintln(deps.Stdout, "  reachable: yes")
		if deps.Embedder.ModelAvailable(deps.Ctx) {
			fmt.Fprintln(deps.Stdout, "  model available: yes")
		} else {
			fmt.Fprintf(deps.Stdout, "  model available: no (try: ollama pull %s)\n", deps.Config.Ollama.Model)
		}
	} else {
		fmt.Fprintln(deps.Stdout, "  reachable: no (try: ollama serve)")
	}

	sources, err := deps.Sources.FindSources(deps.Ctx, helpdex.SourceFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources configured.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, "Sources:")
	for _, s := range sources {
		articles, err := deps.Articles.FindArticlesBySource(deps.Ctx, s.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
			return err
		}
		chunks, vectors, err := deps.Chunks.CountChunks(deps.Ctx, s.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
			return err
		}

		synced := "never synced"
		if s.LastSyncedAt != nil {
			synced = "synced " + s.LastSyncedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(deps.Stdout, "  %s: %d articles, %d chunks, %d vectors (%s)\n",
			s.ID, len(articles), chunks, vectors, synced)
	}

	return nil
}
