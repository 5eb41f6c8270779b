// AngelaMos | 2026
// service.go

package followup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "followup"

type ComplaintReader interface {
	OwnerOf(ctx context.Context, complaintID int64) (int64, error)
}

type Service struct {
	repo       Repository
	complaints ComplaintReader
	cache      *cache.Cache
	now        func() time.Time
}

func NewService(repo Repository, complaints ComplaintReader, c *cache.Cache) *Service {
	return &Service{
		repo:       repo,
		complaints: complaints,
		cache:      c,
		now:        time.Now,
	}
}

func (s *Service) List(
	ctx context.Context,
	actor *access.Identity,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[FollowupResponse], error) {
	if err := access.Check(actor, access.ActionList, access.AdminOnly(resourceKind)); err != nil {
		return pagination.Page[FollowupResponse]{}, fmt.Errorf("list followups: %w", err)
	}

	return s.list(ctx, f, p)
}

// ListByComplaint is visible to whoever may read the complaint itself.
func (s *Service) ListByComplaint(
	ctx context.Context,
	actor *access.Identity,
	complaintID int64,
	p pagination.Pageable,
) (pagination.Page[FollowupResponse], error) {
	owner, err := s.complaints.OwnerOf(ctx, complaintID)
	if errors.Is(err, core.ErrNotFound) {
		return pagination.Page[FollowupResponse]{}, core.NotFoundError("complaint")
	}
	if err != nil {
		return pagination.Page[FollowupResponse]{}, err
	}

	if err := access.Check(actor, access.ActionRead, access.Owned(resourceKind, owner)); err != nil {
		return pagination.Page[FollowupResponse]{}, fmt.Errorf("list complaint followups: %w", err)
	}

	return s.list(ctx, ListFilter{ComplaintID: complaintID}, p)
}

func (s *Service) list(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[FollowupResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Followups, key,
		func(ctx context.Context) (pagination.Page[FollowupResponse], error) {
			rows, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[FollowupResponse]{}, err
			}
			return pagination.Map(pagination.NewPage(rows, p, total), func(f Followup) FollowupResponse {
				return ToFollowupResponse(&f)
			}), nil
		})
}

func (s *Service) Get(
	ctx context.Context,
	actor *access.Identity,
	id int64,
) (*FollowupResponse, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionRead, access.Owned(resourceKind, f.ComplaintOwnerID)); err != nil {
		return nil, fmt.Errorf("get followup: %w", err)
	}

	resp := ToFollowupResponse(f)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req FollowupRequest,
) (*FollowupResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.AdminOnly(resourceKind)); err != nil {
		return nil, fmt.Errorf("create followup: %w", err)
	}

	f := req.toEntity(s.now())
	if err := s.prepare(ctx, f); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Followups); err != nil {
		return nil, fmt.Errorf("create followup: %w", err)
	}

	resp := ToFollowupResponse(f)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req FollowupRequest,
) (*FollowupResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionUpdate, access.AdminOnly(resourceKind)); err != nil {
		return nil, fmt.Errorf("update followup: %w", err)
	}

	f := req.toEntity(s.now())
	f.ID = id
	if err := s.prepare(ctx, f); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Followups); err != nil {
		return nil, fmt.Errorf("update followup: %w", err)
	}

	resp := ToFollowupResponse(f)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := access.Check(actor, access.ActionDelete, access.AdminOnly(resourceKind)); err != nil {
		return fmt.Errorf("delete followup: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Followups); err != nil {
		return fmt.Errorf("delete followup: %w", err)
	}

	return nil
}

// prepare checks the sanitized text and resolves the parent complaint.
func (s *Service) prepare(ctx context.Context, f *Followup) error {
	if f.Description == "" {
		return core.ValidationError("description must contain text")
	}

	owner, err := s.complaints.OwnerOf(ctx, f.ComplaintID)
	if errors.Is(err, core.ErrNotFound) {
		return core.MissingReference("complaint")
	}
	if err != nil {
		return fmt.Errorf("check complaint: %w", err)
	}

	f.ComplaintOwnerID = owner
	return nil
}
