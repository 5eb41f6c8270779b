// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is the slice of a user account needed to authenticate it.
type UserInfo struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	tokens       *TokenCodec
	userProvider UserProvider
}

func NewService(tokens *TokenCodec, userProvider UserProvider) *Service {
	return &Service{
		tokens:       tokens,
		userProvider: userProvider,
	}
}

// Login verifies the password against the stored argon2id hash, upgrading
// the hash in place when its parameters are stale, and issues a token.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userProvider.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, core.ErrNotFound):
		//nolint:errcheck // keeps unknown emails as slow as known ones
		_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	valid, upgraded, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !valid {
		slog.InfoContext(ctx, "login rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if upgraded != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, upgraded); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	token, expiresAt, err := s.tokens.Issue(access.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}
