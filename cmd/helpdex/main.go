package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/helpdex"
	"github.com/fwojciec/helpdex/goquery"
	"github.com/fwojciec/helpdex/ollama"
	"github.com/fwojciec/helpdex/search"
	hdslog "github.com/fwojciec/helpdex/slog"
	"github.com/fwojciec/helpdex/sqlite"
	"github.com/fwojciec/helpdex/syncer"
	"github.com/fwojciec/helpdex/yaml"
	"github.com/fwojciec/helpdex/zendesk"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService helpdex.SourceService
	SearchService helpdex.SearchService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("helpdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'helpdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	config, err := yaml.LoadConfig(cli.Config)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set HELPDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := newLogger(stderr)
	embedder := hdslog.NewLoggingEmbedder(
		ollama.NewEmbedder(config.Ollama.BaseURL, config.Ollama.Model), logger)
	fetcher := hdslog.NewLoggingFetcher(zendesk.NewFetcher(), logger)

	m.SourceService = sqlite.NewSourceService(m.DB)
	syncStore := sqlite.NewSyncService(m.DB)

	deps.DB = m.DB
	deps.Config = config
	deps.Sources = m.SourceService
	deps.Articles = sqlite.NewArticleService(m.DB)
	deps.Chunks = sqlite.NewChunkService(m.DB)
	deps.Embedder = embedder
	deps.Syncer = &syncer.Syncer{
		Fetcher:      fetcher,
		Normalizer:   goquery.NewNormalizer(),
		Embedder:     embedder,
		Store:        syncStore,
		ChunkSize:    config.Sync.ChunkSize,
		ChunkOverlap: config.Sync.ChunkOverlap,
	}
	m.SearchService = &search.Engine{
		Embedder: embedder,
		Index:    sqlite.NewVectorIndex(m.DB),
	}
	deps.Searcher = m.SearchService

	// Sources declared in the config file are merged into the registry
	// before any command runs, preserving sync markers.
	for i := range config.Sources {
		if err := m.SourceService.UpsertSource(ctx, config.Sources[i].Source()); err != nil {
			return fmt.Errorf("register config source %q: %w", config.Sources[i].ID, err)
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a logger for the decorator chain. Quiet by default;
// HELPDEX_DEBUG enables info-level output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelError
	if os.Getenv("HELPDEX_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("HELPDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "helpdex.db"
	}
	dir := filepath.Join(home, ".helpdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "helpdex.db")
}
