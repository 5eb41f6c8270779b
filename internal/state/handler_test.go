// AngelaMos | 2026
// handler_test.go

package state

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

type memoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[int64]State
	referenced map[int64]bool
	listCalls  int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int64]State{}, referenced: map[int64]bool{}}
}

func (m *memoryRepository) Create(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.rows[s.ID] = *s
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id int64) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get state: %w", core.ErrNotFound)
	}
	return &s, nil
}

func (m *memoryRepository) Update(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.ID]; !ok {
		return fmt.Errorf("update state: %w", core.ErrNotFound)
	}
	m.rows[s.ID] = *s
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete state: %w", core.ErrNotFound)
	}
	if m.referenced[id] {
		return fmt.Errorf("delete state: %w", core.ErrReferenceInUse)
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepository) List(
	_ context.Context,
	f ListFilter,
	_ pagination.Pageable,
) ([]State, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []State
	for _, s := range m.rows {
		if f.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

type fixture struct {
	router http.Handler
	repo   *memoryRepository
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	c := cache.New(cache.NewMemoryStore(64, time.Minute), cache.Options{})
	h := NewHandler(NewService(repo, c))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if role := req.Header.Get("X-Test-Role"); role != "" {
				req = req.WithContext(middleware.WithClaims(req.Context(),
					&middleware.AccessTokenClaims{UserID: 1, Role: role}))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.RegisterRoutes(r)

	return &fixture{router: r, repo: repo}
}

func (f *fixture) do(method, path, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenGet(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"São Paulo","uf":"sp"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "SP", created.UF)

	rec = f.do(http.MethodGet, fmt.Sprintf("/state/%d", created.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"","uf":"S1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error.Details, "name")
	assert.Contains(t, body.Error.Details, "uf")
}

func TestWriteRequiresAdmin(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/state", access.RoleUser, `{"name":"Bahia","uf":"BA"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/state", "", `{"name":"Bahia","uf":"BA"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecondDeleteIsNotFound(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"Bahia","uf":"BA"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/state/1", access.RoleAdmin, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/state/1", access.RoleAdmin, "").Code)
}

func TestDeleteReferencedStateConflicts(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"São Paulo","uf":"SP"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	f.repo.referenced[1] = true

	rec = f.do(http.MethodDelete, "/state/1", access.RoleAdmin, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/state/1", "", "").Code)
}

func TestListIsCachedUntilWrite(t *testing.T) {
	f := newFixture()
	f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"Bahia","uf":"BA"}`)

	for range 3 {
		rec := f.do(http.MethodGet, "/state?name=bah", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, f.repo.listCalls)

	f.do(http.MethodPost, "/state", access.RoleAdmin, `{"name":"Bahia do Sul","uf":"BS"}`)

	rec := f.do(http.MethodGet, "/state?name=bah", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.repo.listCalls)

	var page pagination.Page[StateResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 0, page.PageNumber)
	assert.Equal(t, 10, page.Size)
}

func TestListRejectsUnknownSort(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/state?sort=password,asc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
