// AngelaMos | 2026
// service.go

package complaint

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "complaint"

// ReferenceReader reports whether a referenced row exists.
type ReferenceReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type References struct {
	Users         ReferenceReader
	Locations     ReferenceReader
	Organizations ReferenceReader
}

type Service struct {
	repo  Repository
	refs  References
	cache *cache.Cache
}

func NewService(repo Repository, refs References, c *cache.Cache) *Service {
	return &Service{repo: repo, refs: refs, cache: c}
}

// List is the administrator view over every complaint.
func (s *Service) List(
	ctx context.Context,
	actor *access.Identity,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[ComplaintResponse], error) {
	if err := access.Check(actor, access.ActionList, access.Owned(resourceKind, 0)); err != nil {
		return pagination.Page[ComplaintResponse]{}, fmt.Errorf("list complaints: %w", err)
	}

	return s.list(ctx, f, p)
}

func (s *Service) ListByUser(
	ctx context.Context,
	actor *access.Identity,
	userID int64,
	p pagination.Pageable,
) (pagination.Page[ComplaintResponse], error) {
	if err := access.Check(actor, access.ActionRead, access.Owned(resourceKind, userID)); err != nil {
		return pagination.Page[ComplaintResponse]{}, fmt.Errorf("list user complaints: %w", err)
	}

	return s.list(ctx, ListFilter{UserID: userID}, p)
}

func (s *Service) list(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[ComplaintResponse], error) {
	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Complaints, key,
		func(ctx context.Context) (pagination.Page[ComplaintResponse], error) {
			rows, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[ComplaintResponse]{}, err
			}
			return pagination.Map(pagination.NewPage(rows, p, total), func(c Complaint) ComplaintResponse {
				return ToComplaintResponse(&c)
			}), nil
		})
}

func (s *Service) Get(
	ctx context.Context,
	actor *access.Identity,
	id int64,
) (*ComplaintResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionRead, access.Owned(resourceKind, c.UserID)); err != nil {
		return nil, fmt.Errorf("get complaint: %w", err)
	}

	resp := ToComplaintResponse(c)
	return &resp, nil
}

// Create files a complaint on behalf of req.UserID. Users may only file for
// themselves.
func (s *Service) Create(
	ctx context.Context,
	actor *access.Identity,
	req ComplaintRequest,
) (*ComplaintResponse, error) {
	if err := access.Check(actor, access.ActionCreate, access.Owned(resourceKind, req.UserID)); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	c := req.toEntity()
	if c.Description == "" {
		return nil, core.ValidationError("description must contain text")
	}

	if err := s.requireReferences(ctx, c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Complaints); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	return s.reload(ctx, c.ID)
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req ComplaintRequest,
) (*ComplaintResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, access.ActionUpdate, access.Owned(resourceKind, existing.UserID)); err != nil {
		return nil, fmt.Errorf("update complaint: %w", err)
	}

	// reassigning to another owner needs rights over the new owner as well
	if req.UserID != existing.UserID {
		if err := access.Check(actor, access.ActionUpdate, access.Owned(resourceKind, req.UserID)); err != nil {
			return nil, fmt.Errorf("reassign complaint: %w", err)
		}
	}

	c := req.toEntity()
	c.ID = id
	if c.Description == "" {
		return nil, core.ValidationError("description must contain text")
	}

	if err := s.requireReferences(ctx, c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Complaints); err != nil {
		return nil, fmt.Errorf("update complaint: %w", err)
	}

	return s.reload(ctx, id)
}

// Delete refuses while followups still reference the complaint.
func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Check(actor, access.ActionDelete, access.Owned(resourceKind, existing.UserID)); err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Complaints); err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// OwnerOf returns the user who filed the complaint.
func (s *Service) OwnerOf(ctx context.Context, id int64) (int64, error) {
	return s.repo.OwnerOf(ctx, id)
}

func (s *Service) reload(ctx context.Context, id int64) (*ComplaintResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToComplaintResponse(c)
	return &resp, nil
}

func (s *Service) requireReferences(ctx context.Context, c *Complaint) error {
	checks := []struct {
		name   string
		reader ReferenceReader
		id     int64
	}{
		{"user", s.refs.Users, c.UserID},
		{"location", s.refs.Locations, c.LocationID},
		{"organization", s.refs.Organizations, c.OrganizationID},
	}

	for _, check := range checks {
		ok, err := check.reader.Exists(ctx, check.id)
		if err != nil {
			return fmt.Errorf("check %s: %w", check.name, err)
		}
		if !ok {
			return core.MissingReference(check.name)
		}
	}

	return nil
}
