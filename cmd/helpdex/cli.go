package main

import (
	"context"
	"io"

	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/sqlite"
	"github.com/fwojciec/helpdex/syncer"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	DB       *sqlite.DB
	Config   *helpdex.Config
	Sources  helpdex.SourceService
	Articles helpdex.ArticleService
	Chunks   helpdex.ChunkService
	Embedder helpdex.Embedder
	Syncer   *syncer.Syncer
	Searcher helpdex.SearchService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to config file" default:"helpdex.yaml"`

	Source SourceCmd `cmd:"" help:"Manage help center sources"`
	Sync   SyncCmd   `cmd:"" help:"Sync sources into the local index"`
	Search SearchCmd `cmd:"" help:"Search indexed articles"`
	Status StatusCmd `cmd:"" help:"Show index status and service probes"`
}

// SourceCmd groups the source management subcommands.
type SourceCmd struct {
	Add    SourceAddCmd    `cmd:"" help:"Register a new source"`
	List   SourceListCmd   `cmd:"" help:"List registered sources"`
	Remove SourceRemoveCmd `cmd:"" help:"Remove a source and its indexed content"`
}

// SourceAddCmd is the "source add" subcommand.
type SourceAddCmd struct {
	ID      string `arg:"" help:"Source slug (unique, no spaces)"`
	Name    string `arg:"" help:"Display name"`
	BaseURL string `arg:"" help:"Help center base URL"`
	Locale  string `default:"en-us" help:"Help center locale"`
}

// SourceListCmd is the "source list" subcommand.
type SourceListCmd struct{}

// SourceRemoveCmd is the "source remove" subcommand.
type SourceRemoveCmd struct {
	ID string `arg:"" help:"Source slug"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Source []string `help:"Sync only the given source IDs (repeatable)"`
	Full   bool     `help:"Reprocess every article regardless of timestamps"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query  string   `arg:"" help:"Free-text query"`
	Limit  int      `short:"l" help:"Maximum number of results (default 5, cap 20)"`
	Source []string `help:"Restrict to the given source IDs (repeatable)"`
	Dedup  bool     `help:"Keep only the best match per article URL"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}
