// AngelaMos | 2026
// service.go

package state

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "state"

type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[StateResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.States, key,
		func(ctx context.Context) (pagination.Page[StateResponse], error) {
			states, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[StateResponse]{}, err
			}
			page := pagination.NewPage(states, p, total)
			return pagination.Map(page, func(st State) StateResponse {
				return ToStateResponse(&st)
			}), nil
		})
}

func (s *Service) Get(ctx context.Context, id int64) (*StateResponse, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToStateResponse(st)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req StateRequest,
) (*StateResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("create state: %w", err)
	}

	st := req.toEntity()
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.States); err != nil {
		return nil, fmt.Errorf("create state: %w", err)
	}

	resp := ToStateResponse(st)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req StateRequest,
) (*StateResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	st := req.toEntity()
	st.ID = id
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.States); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}

	resp := ToStateResponse(st)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.PublicRead(resourceKind)); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.States); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
