// Package sqlite provides SQLite-based storage implementations for helpdex
// services. Vectors live in a sqlite-vec (vec0) virtual table keyed by chunk
// rowid, alongside the relational tables in the same database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"

	"github.com/fwojciec/helpdex"
)

// DefaultDimensions is the vector size of the chunk_vectors table.
const DefaultDimensions = helpdex.DefaultEmbeddingDimensions

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	// Dimensions is the embedding vector size used for the chunk_vectors
	// table. Must be set before Open; defaults to DefaultDimensions.
	Dimensions int
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path, Dimensions: DefaultDimensions}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
//
// chunk_vectors is a vec0 virtual table whose rowid mirrors chunks.id. The
// virtual table does not participate in foreign key cascades, so every code
// path that deletes chunks must delete the matching vector rows in the same
// transaction.
func (db *DB) createSchema() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			base_url TEXT NOT NULL,
			locale TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			last_synced_at TEXT
		);

		CREATE TABLE IF NOT EXISTS articles (
			id INTEGER NOT NULL,
			source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			section_name TEXT NOT NULL DEFAULT '',
			category_name TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL,
			synced_at TEXT NOT NULL,
			PRIMARY KEY (id, source_id)
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL,
			source_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			token_count INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (article_id, source_id) REFERENCES articles(id, source_id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_article ON chunks(source_id, article_id);

		CREATE VIRTUAL TABLE IF NOT EXISTS chunk_vectors USING vec0(
			embedding float[%d] distance_metric=cosine
		);
	`, db.Dimensions)

	_, err := db.db.Exec(schema)
	return err
}
