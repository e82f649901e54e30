package main

import (
	"fmt"

	"github.com/fwojciec/helpdex"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, c.Query, helpdex.SearchOptions{
		SourceIDs: c.Source,
		Limit:     c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
		return err
	}

	if c.Dedup {
		results = helpdex.DedupByURL(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results. Run 'helpdex sync' to index your sources first.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. [%.0f%%] %s (%s)\n", i+1, r.Relevance*100, r.Title, r.SourceID)
		fmt.Fprintf(deps.Stdout, "   %s\n", r.URL)
		fmt.Fprintf(deps.Stdout, "   %s\n", truncate(r.Text, 200))
	}

	return nil
}

// truncate shortens s to at most n bytes on a rune boundary, appending an
// ellipsis when cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "..."
}
