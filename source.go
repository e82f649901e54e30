package helpdex

import (
	"context"
	"strings"
	"time"
)

// Source represents one externally hosted article collection being indexed.
type Source struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	BaseURL      string     `json:"baseUrl"`
	Locale       string     `json:"locale"`
	Enabled      bool       `json:"enabled"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "source ID required")
	}
	if strings.ContainsAny(s.ID, " /\\") {
		return Errorf(EINVALID, "source ID %q must be a slug without spaces or slashes", s.ID)
	}
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.BaseURL == "" {
		return Errorf(EINVALID, "source base URL required")
	}
	if s.Locale == "" {
		return Errorf(EINVALID, "source locale required")
	}
	return nil
}

// SourceService represents a service for managing sources.
type SourceService interface {
	// CreateSource creates a new source.
	// Returns EINVALID if a source with the same ID already exists.
	CreateSource(ctx context.Context, source *Source) error

	// UpsertSource creates the source or updates its configured fields,
	// preserving LastSyncedAt. Used when merging file configuration into
	// the registry.
	UpsertSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves sources matching the filter, ordered by ID.
	FindSources(ctx context.Context, filter SourceFilter) ([]*Source, error)

	// UpdateSource updates an existing source.
	// Returns ENOTFOUND if source does not exist.
	UpdateSource(ctx context.Context, id string, upd SourceUpdate) (*Source, error)

	// DeleteSource permanently removes a source and all associated articles,
	// chunks, and vectors. Returns ENOTFOUND if source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// SourceFilter represents a filter for FindSources.
type SourceFilter struct {
	ID      *string `json:"id"`
	Enabled *bool   `json:"enabled"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SourceUpdate represents fields that can be updated on a source.
type SourceUpdate struct {
	Name    *string `json:"name"`
	BaseURL *string `json:"baseUrl"`
	Locale  *string `json:"locale"`
	Enabled *bool   `json:"enabled"`
}
