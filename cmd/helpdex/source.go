package main

import (
	"fmt"

	"github.com/fwojciec/helpdex"
)

// Run executes the "source add" command.
func (c *SourceAddCmd) Run(deps *Dependencies) error {
	source := &helpdex.Source{
		ID:      c.ID,
		Name:    c.Name,
		BaseURL: c.BaseURL,
		Locale:  c.Locale,
		Enabled: true,
	}

	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %q (%s, %s)\n", source.ID, source.BaseURL, source.Locale)
	fmt.Fprintf(deps.Stdout, "Run 'helpdex sync --source %s' to index it.\n", source.ID)
	return nil
}

// Run executes the "source list" command.
func (c *SourceListCmd) Run(deps *Dependencies) error {
	sources, err := deps.Sources.FindSources(deps.Ctx, helpdex.SourceFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources configured. Use 'helpdex source add' to create one.")
		return nil
	}

	for _, s := range sources {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		synced := "never synced"
		if s.LastSyncedAt != nil {
			synced = "synced " + s.LastSyncedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  [%s, %s]\n",
			s.ID, s.Name, s.BaseURL, s.Locale, state, synced)
	}

	return nil
}

// Run executes the "source remove" command.
func (c *SourceRemoveCmd) Run(deps *Dependencies) error {
	if err := deps.Sources.DeleteSource(deps.Ctx, c.ID); err != nil {
		if helpdex.ErrorCode(err) == helpdex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: source %q not found. Use 'helpdex source list' to see configured sources.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", helpdex.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed source %q and its indexed content\n", c.ID)
	return nil
}
