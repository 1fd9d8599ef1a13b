package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// CRUDService implements ports.CRUDService for any entity whose writable
// input maps onto the entity through build. build is where link fields
// (e.g. a product's category id) become foreign-key columns.
type CRUDService[E any, I any] struct {
	resource string
	repo     ports.Repository[E]
	build    func(I) E
	logger   zerolog.Logger
}

func NewCRUDService[E any, I any](resource string, repo ports.Repository[E], build func(I) E, logger zerolog.Logger) *CRUDService[E, I] {
	return &CRUDService[E, I]{
		resource: resource,
		repo:     repo,
		build:    build,
		logger:   logger.With().Str("resource", resource).Logger(),
	}
}

func (s *CRUDService[E, I]) List(ctx context.Context) ([]E, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(err, "list")
	}
	if rows == nil {
		rows = []E{}
	}
	return rows, nil
}

func (s *CRUDService[E, I]) Get(ctx context.Context, id int64) (*E, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, "get")
	}
	return row, nil
}

func (s *CRUDService[E, I]) Create(ctx context.Context, in I) (*E, error) {
	row := s.build(in)
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, s.fail(err, "create")
	}
	s.logger.Debug().Msg("created")
	return &row, nil
}

func (s *CRUDService[E, I]) Update(ctx context.Context, id int64, in I) (*E, error) {
	row := s.build(in)
	if err := s.repo.Replace(ctx, id, &row); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, s.fail(err, "update")
	}
	return &row, nil
}

func (s *CRUDService[E, I]) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, s.fail(err, "delete")
	}
	return true, nil
}

// fail logs server-caused failures; client-caused ones are the caller's
// problem and only reach the debug log.
func (s *CRUDService[E, I]) fail(err error, op string) error {
	if domain.IsClientError(err) {
		s.logger.Debug().Err(err).Str("op", op).Msg("rejected by storage")
		return err
	}
	s.logger.Error().Err(err).Str("op", op).Msg("storage failure")
	return err
}
