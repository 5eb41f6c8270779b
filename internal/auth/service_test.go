// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

type memoryUsers struct {
	byEmail  map[string]*UserInfo
	rehashed map[int64]string
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.rehashed[id] = hash
	return nil
}

func newLoginService(t *testing.T) (*Service, *TokenCodec) {
	t.Helper()
	hash, err := core.HashPassword("correct horse battery")
	require.NoError(t, err)

	users := &memoryUsers{
		byEmail: map[string]*UserInfo{
			"ana@example.com": {
				ID:           9,
				Email:        "ana@example.com",
				Name:         "Ana",
				PasswordHash: hash,
				Role:         access.RoleUser,
			},
		},
		rehashed: map[int64]string{},
	}

	codec := newCodec(t, testSecret, &fakeClock{t: time.Now()})
	return NewService(codec, users), codec
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	svc, codec := newLoginService(t)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Ana@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.Equal(t, access.RoleUser, resp.Role)
	assert.Equal(t, time.UTC, resp.ExpiresAt.Location())

	identity, err := codec.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), identity.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newLoginService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginHandler(t *testing.T) {
	svc, _ := newLoginService(t)
	h := NewHandler(svc)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"ok", `{"email":"ana@example.com","password":"correct horse battery"}`, http.StatusOK},
		{"wrong password", `{"email":"ana@example.com","password":"nope nope"}`, http.StatusUnauthorized},
		{"missing email", `{"password":"x"}`, http.StatusBadRequest},
		{"broken json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, "ana@example.com", resp.Email)
			}
		})
	}
}
