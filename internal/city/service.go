// AngelaMos | 2026
// service.go

package city

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "city"

type StateReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   Repository
	states StateReader
	cache  *cache.Cache
}

func NewService(repo Repository, states StateReader, c *cache.Cache) *Service {
	return &Service{repo: repo, states: states, cache: c}
}

func (s *Service) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[CityResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Cities, key,
		func(ctx context.Context) (pagination.Page[CityResponse], error) {
			cities, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[CityResponse]{}, err
			}
			return pagination.Map(pagination.NewPage(cities, p, total), func(c City) CityResponse {
				return ToCityResponse(&c)
			}), nil
		})
}

func (s *Service) Get(ctx context.Context, id int64) (*CityResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToCityResponse(c)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req CityRequest,
) (*CityResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}

	if err := s.requireState(ctx, req.StateID); err != nil {
		return nil, err
	}

	c := req.toEntity()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Cities); err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}

	return s.Get(ctx, c.ID)
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req CityRequest,
) (*CityResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("update city: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.requireState(ctx, req.StateID); err != nil {
		return nil, err
	}

	c := req.toEntity()
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Cities); err != nil {
		return nil, fmt.Errorf("update city: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.PublicRead(resourceKind)); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Cities); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) requireState(ctx context.Context, stateID int64) error {
	ok, err := s.states.Exists(ctx, stateID)
	if err != nil {
		return fmt.Errorf("check state: %w", err)
	}
	if !ok {
		return core.MissingReference("state")
	}
	return nil
}
