// AngelaMos | 2026
// service.go

package organization

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "organization"

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
) (pagination.Page[OrganizationResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Organizations, key,
		func(ctx context.Context) (pagination.Page[OrganizationResponse], error) {
			rows, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[OrganizationResponse]{}, err
			}
			page := pagination.NewPage(rows, p, total)
			return pagination.Map(page, func(o Organization) OrganizationResponse {
				return ToOrganizationResponse(&o)
			}), nil
		})
}

func (s *Service) Get(ctx context.Context, id int64) (*OrganizationResponse, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToOrganizationResponse(o)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req OrganizationRequest,
) (*OrganizationResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	o := req.toEntity()
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Organizations); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	resp := ToOrganizationResponse(o)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req OrganizationRequest,
) (*OrganizationResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.PublicRead(resourceKind)); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	o := req.toEntity()
	o.ID = id
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Organizations); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}

	resp := ToOrganizationResponse(o)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.PublicRead(resourceKind)); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Organizations); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
