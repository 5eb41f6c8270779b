// AngelaMos | 2026
// service.go

package location

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "location"

type NeighborhoodReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo          Repository
	neighborhoods NeighborhoodReader
	cache         *cache.Cache
}

func NewService(repo Repository, neighborhoods NeighborhoodReader, c *cache.Cache) *Service {
	return &Service{repo: repo, neighborhoods: neighborhoods, cache: c}
}

func (s *Service) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[LocationResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Locations, key,
		func(ctx context.Context) (pagination.Page[LocationResponse], error) {
			rows, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[LocationResponse]{}, err
			}
			return pagination.Map(pagination.NewPage(rows, p, total), func(l Location) LocationResponse {
				return ToLocationResponse(&l)
			}), nil
		})
}

func (s *Service) Get(ctx context.Context, id int64) (*LocationResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToLocationResponse(l)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req LocationRequest,
) (*LocationResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	if err := s.requireNeighborhood(ctx, req.NeighborhoodID); err != nil {
		return nil, err
	}

	l := req.toEntity()
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Locations); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	return s.Get(ctx, l.ID)
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req LocationRequest,
) (*LocationResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.requireNeighborhood(ctx, req.NeighborhoodID); err != nil {
		return nil, err
	}

	l := req.toEntity()
	l.ID = id
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Locations); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.PublicRead(resourceKind)); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Locations); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) requireNeighborhood(ctx context.Context, neighborhoodID int64) error {
	ok, err := s.neighborhoods.Exists(ctx, neighborhoodID)
	if err != nil {
		return fmt.Errorf("check neighborhood: %w", err)
	}
	if !ok {
		return core.MissingReference("neighborhood")
	}
	return nil
}
