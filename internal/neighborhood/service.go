// AngelaMos | 2026
// service.go

package neighborhood

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "neighborhood"

type CityReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   Repository
	cities CityReader
	cache  *cache.Cache
}

func NewService(repo Repository, cities CityReader, c *cache.Cache) *Service {
	return &Service{repo: repo, cities: cities, cache: c}
}

func (s *Service) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[NeighborhoodResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Neighborhoods, key,
		func(ctx context.Context) (pagination.Page[NeighborhoodResponse], error) {
			rows, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[NeighborhoodResponse]{}, err
			}
			return pagination.Map(pagination.NewPage(rows, p, total), func(n Neighborhood) NeighborhoodResponse {
				return ToNeighborhoodResponse(&n)
			}), nil
		})
}

func (s *Service) Get(ctx context.Context, id int64) (*NeighborhoodResponse, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToNeighborhoodResponse(n)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req NeighborhoodRequest,
) (*NeighborhoodResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("create neighborhood: %w", err)
	}

	if err := s.requireCity(ctx, req.CityID); err != nil {
		return nil, err
	}

	n := req.toEntity()
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Neighborhoods); err != nil {
		return nil, fmt.Errorf("create neighborhood: %w", err)
	}

	return s.Get(ctx, n.ID)
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req NeighborhoodRequest,
) (*NeighborhoodResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("update neighborhood: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.requireCity(ctx, req.CityID); err != nil {
		return nil, err
	}

	n := req.toEntity()
	n.ID = id
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Neighborhoods); err != nil {
		return nil, fmt.Errorf("update neighborhood: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.PublicRead(resourceKind)); err != nil {
		return fmt.Errorf("delete neighborhood: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Neighborhoods); err != nil {
		return fmt.Errorf("delete neighborhood: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) requireCity(ctx context.Context, cityID int64) error {
	ok, err := s.cities.Exists(ctx, cityID)
	if err != nil {
		return fmt.Errorf("check city: %w", err)
	}
	if !ok {
		return core.MissingReference("city")
	}
	return nil
}
