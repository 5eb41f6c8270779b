// AngelaMos | 2026
// token.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/config"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
)

const minSecretLength = 32

type TokenCodec struct {
	key    jwk.Key
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(cfg config.JWTConfig, opts ...TokenOption) (*TokenCodec, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf(
			"token secret must be at least %d bytes",
			minSecretLength,
		)
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import secret: %w", err)
	}

	if setErr := key.Set(jwk.KeyIDKey, core.Fingerprint(cfg.Issuer, cfg.Secret)[:8]); setErr != nil {
		return nil, fmt.Errorf("set key id: %w", setErr)
	}

	c := &TokenCodec{
		key:    key,
		issuer: cfg.Issuer,
		ttl:    cfg.Expire,
		now:    time.Now,
	}
	if c.ttl <= 0 {
		c.ttl = 24 * time.Hour
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *TokenCodec) KeyID() string {
	kid, _ := c.key.KeyID()
	return kid
}

// Issue signs a token for identity and returns it with its UTC expiry.
func (c *TokenCodec) Issue(identity access.Identity) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)

	token, err := jwt.NewBuilder().
		Issuer(c.issuer).
		Subject(strconv.FormatInt(identity.ID, 10)).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim("email", identity.Email).
		Claim("role", identity.Role).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), c.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

func (c *TokenCodec) Verify(tokenString string) (*access.Identity, error) {
	raw := []byte(tokenString)

	if _, err := jws.Parse(raw); err != nil {
		return nil, fmt.Errorf("verify token: %w: %w", ErrMalformedToken, core.ErrTokenInvalid)
	}

	if _, err := jws.Verify(raw, jws.WithKey(jwa.HS256(), c.key)); err != nil {
		return nil, fmt.Errorf("verify token: %w: %w", ErrInvalidSignature, core.ErrTokenInvalid)
	}

	token, err := jwt.Parse(
		raw,
		jwt.WithKey(jwa.HS256(), c.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(c.issuer),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w: %w", ErrMalformedToken, core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w: %w",
			ErrMalformedToken,
			core.ErrTokenInvalid,
		)
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"verify token: subject %q: %w: %w",
			subject,
			ErrMalformedToken,
			core.ErrTokenInvalid,
		)
	}

	var email, role string
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing email claim: %w: %w",
			ErrMalformedToken,
			core.ErrTokenInvalid,
		)
	}
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w: %w",
			ErrMalformedToken,
			core.ErrTokenInvalid,
		)
	}

	return &access.Identity{ID: id, Email: email, Role: role}, nil
}

func (c *TokenCodec) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	identity, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	return &middleware.AccessTokenClaims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
	}, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		(strings.Contains(errStr, "not satisfied") ||
			strings.Contains(errStr, "expired"))
}
