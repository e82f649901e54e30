package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/helpdex"
)

// Compile-time interface verification.
var _ helpdex.SourceService = (*SourceService)(nil)

// SourceService implements helpdex.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source.
func (s *SourceService) CreateSource(ctx context.Context, source *helpdex.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, base_url, locale, enabled, last_synced_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, source.ID, source.Name, source.BaseURL, source.Locale, boolToInt(source.Enabled))

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return helpdex.Errorf(helpdex.EINVALID, "source %q already exists", source.ID)
	}
	return err
}

// UpsertSource creates the source or updates its configured fields,
// preserving last_synced_at.
func (s *SourceService) UpsertSource(ctx context.Context, source *helpdex.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, base_url, locale, enabled, last_synced_at)
		VALUES (?, ?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_url = excluded.base_url,
			locale = excluded.locale,
			enabled = excluded.enabled
	`, source.ID, source.Name, source.BaseURL, source.Locale, boolToInt(source.Enabled))
	return err
}

// FindSourceByID retrieves a source by ID.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*helpdex.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, base_url, locale, enabled, last_synced_at
		FROM sources
		WHERE id = ?
	`, id)

	source, err := scanSource(row.Scan)
	if err == sql.ErrNoRows {
		return nil, helpdex.Errorf(helpdex.ENOTFOUND, "source %q not found", id)
	}
	return source, err
}

// FindSources retrieves sources matching the filter, ordered by ID.
func (s *SourceService) FindSources(ctx context.Context, filter helpdex.SourceFilter) ([]*helpdex.Source, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, base_url, locale, enabled, last_synced_at FROM sources WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Enabled != nil {
		query.WriteString(" AND enabled = ?")
		args = append(args, boolToInt(*filter.Enabled))
	}

	query.WriteString(" ORDER BY id")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*helpdex.Source
	for rows.Next() {
		source, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// UpdateSource updates an existing source.
func (s *SourceService) UpdateSource(ctx context.Context, id string, upd helpdex.SourceUpdate) (*helpdex.Source, error) {
	source, err := s.FindSourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		source.Name = *upd.Name
	}
	if upd.BaseURL != nil {
		source.BaseURL = *upd.BaseURL
	}
	if upd.Locale != nil {
		source.Locale = *upd.Locale
	}
	if upd.Enabled != nil {
		source.Enabled = *upd.Enabled
	}

	if err := source.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE sources
		SET name = ?, base_url = ?, locale = ?, enabled = ?
		WHERE id = ?
	`, source.Name, source.BaseURL, source.Locale, boolToInt(source.Enabled), id)
	if err != nil {
		return nil, err
	}

	return source, nil
}

// DeleteSource permanently removes a source and all associated articles,
// chunks, and vectors. Vector rows are deleted explicitly because the vec0
// virtual table does not participate in foreign key cascades.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chunk_vectors
		WHERE rowid IN (SELECT id FROM chunks WHERE source_id = ?)
	`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return helpdex.Errorf(helpdex.ENOTFOUND, "source %q not found", id)
	}

	return tx.Commit()
}

// scanSource scans a source row using the given scan function.
func scanSource(scan func(dest ...any) error) (*helpdex.Source, error) {
	var source helpdex.Source
	var enabled int
	var lastSyncedAt sql.NullString

	if err := scan(&source.ID, &source.Name, &source.BaseURL, &source.Locale, &enabled, &lastSyncedAt); err != nil {
		return nil, err
	}

	source.Enabled = enabled != 0
	if lastSyncedAt.Valid {
		t, err := parseRFC3339(lastSyncedAt.String, "last_synced_at")
		if err != nil {
			return nil, err
		}
		source.LastSyncedAt = &t
	}

	return &source, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
