package mock

import (
	"context"

	"github.com/fwojciec/helpdex"
)

var _ helpdex.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of helpdex.SourceService.
type SourceService struct {
	CreateSourceFn   func(ctx context.Context, source *helpdex.Source) error
	UpsertSourceFn   func(ctx context.Context, source *helpdex.Source) error
	FindSourceByIDFn func(ctx context.Context, id string) (*helpdex.Source, error)
	FindSourcesFn    func(ctx context.Context, filter helpdex.SourceFilter) ([]*helpdex.Source, error)
	UpdateSourceFn   func(ctx context.Context, id string, upd helpdex.SourceUpdate) (*helpdex.Source, error)
	DeleteSourceFn   func(ctx context.Context, id string) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *helpdex.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) UpsertSource(ctx context.Context, source *helpdex.Source) error {
	return s.UpsertSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*helpdex.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context, filter helpdex.SourceFilter) ([]*helpdex.Source, error) {
	return s.FindSourcesFn(ctx, filter)
}

func (s *SourceService) UpdateSource(ctx context.Context, id string, upd helpdex.SourceUpdate) (*helpdex.Source, error) {
	return s.UpdateSourceFn(ctx, id, upd)
}

func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	return s.DeleteSourceFn(ctx, id)
}
