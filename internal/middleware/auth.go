// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

const (
	ClaimsKey contextKey = "token_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID int64
	Email  string
	Role   string
}

// Authorize resolves the caller from the bearer token and enforces the route
// requirement from rules. Public routes ignore an unusable token and proceed
// anonymously; every other route rejects it.
func Authorize(
	rules access.Rules,
	verifier TokenVerifier,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requirement := rules.Requirement(r.Method, r.URL.Path)
			ctx := r.Context()

			if token := ExtractToken(r); token != "" {
				claims, err := verifier.VerifyAccessToken(ctx, token)
				switch {
				case err == nil:
					ctx = WithClaims(ctx, claims)
				case requirement != access.RequirePublic:
					handleAuthError(w, err)
					return
				}
			}

			identity := GetIdentity(ctx)

			switch requirement {
			case access.RequireAuthenticated:
				if identity == nil {
					core.JSONError(w, core.UnauthorizedError("missing authorization token"))
					return
				}
			case access.RequireAdmin:
				if identity == nil {
					core.JSONError(w, core.UnauthorizedError("missing authorization token"))
					return
				}
				if !identity.IsAdmin() {
					core.JSONError(w, core.ForbiddenError("administrator role required"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// GetIdentity returns nil for anonymous callers.
func GetIdentity(ctx context.Context) *access.Identity {
	claims := GetClaims(ctx)
	if claims == nil {
		return nil
	}
	return &access.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
}

func GetUserID(ctx context.Context) int64 {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func IsAuthenticated(ctx context.Context) bool {
	return GetClaims(ctx) != nil
}

func IsAdmin(ctx context.Context) bool {
	return GetIdentity(ctx).IsAdmin()
}
