// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/auth"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const resourceKind = "user"

type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Register creates an account. Only an administrator may choose the role;
// everyone else gets USER whatever the request says.
func (s *Service) Register(
	ctx context.Context,
	actor *access.Identity,
	req CreateUserRequest,
) (*UserResponse, error) {
	role := access.RoleUser
	if actor.IsAdmin() && req.Role != "" {
		role = req.Role
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicateEmail(err)
	}

	if err := s.cache.InvalidateResource(ctx, cache.Users); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *Service) List(
	ctx context.Context,
	actor *access.Identity,
	f ListFilter,
	p pagination.Pageable,
) (pagination.Page[UserResponse], error) {
	if err := access.Check(actor, access.ActionList, access.AdminOnly(resourceKind)); err != nil {
		return pagination.Page[UserResponse]{}, fmt.Errorf("list users: %w", err)
	}

	key := core.Fingerprint(f.Builder().Key(), p.Key())

	return cache.GetOrLoad(ctx, s.cache, cache.Users, key,
		func(ctx context.Context) (pagination.Page[UserResponse], error) {
			users, total, err := s.repo.List(ctx, f, p)
			if err != nil {
				return pagination.Page[UserResponse]{}, err
			}
			page := pagination.NewPage(users, p, total)
			return pagination.Map(page, func(u User) UserResponse {
				return ToUserResponse(&u)
			}), nil
		})
}

func (s *Service) Get(
	ctx context.Context,
	actor *access.Identity,
	id int64,
) (*UserResponse, error) {
	if err := access.Check(actor, access.ActionRead, access.Owned(resourceKind, id)); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor *access.Identity,
	id int64,
	req UpdateUserRequest,
) (*UserResponse, error) {
	if err := access.Check(actor, access.ActionUpdate, access.Owned(resourceKind, id)); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != "" && req.Role != user.Role {
		if !actor.IsAdmin() {
			return nil, core.ForbiddenError("only administrators may change roles")
		}
		user.Role = req.Role
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicateEmail(err)
	}

	if err := s.cache.InvalidateResource(ctx, cache.Users); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor *access.Identity, id int64) error {
	if err := access.Check(actor, access.ActionDelete, access.Owned(resourceKind, id)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateResource(ctx, cache.Users); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func duplicateEmail(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError("email")
	}
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
