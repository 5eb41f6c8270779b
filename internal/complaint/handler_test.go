// AngelaMos | 2026
// handler_test.go

package complaint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

type knownIDs map[int64]bool

func (k knownIDs) Exists(_ context.Context, id int64) (bool, error) {
	return k[id], nil
}

type memoryRepository struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]Complaint
	followups map[int64]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int64]Complaint{}, followups: map[int64]bool{}}
}

func (m *memoryRepository) Create(_ context.Context, c *Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	c.UserName = fmt.Sprintf("user-%d", c.UserID)
	c.OrganizationName = "CETESB"
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id int64) (*Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get complaint: %w", core.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryRepository) Update(_ context.Context, c *Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[c.ID]
	if !ok {
		return fmt.Errorf("update complaint: %w", core.ErrNotFound)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete complaint: %w", core.ErrNotFound)
	}
	if m.followups[id] {
		return fmt.Errorf("delete complaint: %w", core.ErrReferenceInUse)
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepository) List(
	_ context.Context,
	f ListFilter,
	_ pagination.Pageable,
) ([]Complaint, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Complaint
	for _, c := range m.rows {
		if f.UserID != 0 && c.UserID != f.UserID {
			continue
		}
		if f.Description != "" && !strings.Contains(strings.ToLower(c.Description), strings.ToLower(f.Description)) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memoryRepository) OwnerOf(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return 0, fmt.Errorf("complaint owner: %w", core.ErrNotFound)
	}
	return c.UserID, nil
}

type fixture struct {
	router http.Handler
	repo   *memoryRepository
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	c := cache.New(cache.NewMemoryStore(64, time.Minute), cache.Options{})
	svc := NewService(repo, References{
		Users:         knownIDs{10: true, 20: true, 1: true},
		Locations:     knownIDs{5: true},
		Organizations: knownIDs{3: true},
	}, c)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if who := req.Header.Get("X-Test-User"); who != "" {
				idPart, role, _ := strings.Cut(who, ":")
				id, _ := strconv.ParseInt(idPart, 10, 64)
				req = req.WithContext(middleware.WithClaims(req.Context(),
					&middleware.AccessTokenClaims{UserID: id, Role: role}))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(svc).RegisterRoutes(r)

	return &fixture{router: r, repo: repo}
}

func (f *fixture) do(method, path, who, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if who != "" {
		req.Header.Set("X-Test-User", who)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const (
	asAdmin = "1:ADMIN"
	asUserA = "10:USER"
	asUserB = "20:USER"
)

func complaintBody(userID int64, description string) string {
	return fmt.Sprintf(`{"userId":%d,"locationId":5,"organizationId":3,`+
		`"description":%q,"occurredAt":"2026-03-14T09:30:00-03:00"}`, userID, description)
}

func (f *fixture) file(t *testing.T, who string, userID int64) ComplaintResponse {
	t.Helper()
	rec := f.do(http.MethodPost, "/complaints", who, complaintBody(userID, "Descarte irregular de lixo"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ComplaintResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestOwnerAndAdminCanReadOthersCannot(t *testing.T) {
	f := newFixture()
	created := f.file(t, asUserA, 10)
	path := fmt.Sprintf("/complaints/%d", created.ID)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path, asUserA, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, path, asUserB, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path, asAdmin, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, path, "", "").Code)
}

func TestMissingComplaintIsNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/complaints/999", asUserB, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/complaints/999", asUserB, "").Code)
}

func TestCreateForAnotherUserIsForbidden(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/complaints", asUserB, complaintBody(10, "Queimada"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	created := f.file(t, asAdmin, 10)
	assert.Equal(t, int64(10), created.UserID)
}

func TestCreateStoresUTCAndSanitizedText(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/complaints", asUserA,
		complaintBody(10, `<b>Esgoto</b> a céu aberto<script>alert(1)</script>`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ComplaintResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Esgoto a céu aberto", resp.Description)
	assert.True(t, time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC).Equal(resp.OccurredAt))
	assert.Equal(t, "CETESB", resp.OrganizationName)
}

func TestCreateWithOnlyMarkupIsRejected(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/complaints", asUserA, complaintBody(10, "<script>x</script>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWithUnknownReferences(t *testing.T) {
	f := newFixture()

	body := `{"userId":10,"locationId":77,"organizationId":3,"description":"x","occurredAt":"2026-03-14T09:30:00Z"}`
	rec := f.do(http.MethodPost, "/complaints", asUserA, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "REFERENCE_NOT_FOUND", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "location")
}

func TestOwnerCannotReassignComplaint(t *testing.T) {
	f := newFixture()
	created := f.file(t, asUserA, 10)
	path := fmt.Sprintf("/complaints/%d", created.ID)

	rec := f.do(http.MethodPut, path, asUserA, complaintBody(20, "Outro dono"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPut, path, asUserA, complaintBody(10, "Texto revisado"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPut, path, asAdmin, complaintBody(20, "Transferida"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(20), f.repo.rows[created.ID].UserID)
}

func TestDeleteWithFollowupsConflicts(t *testing.T) {
	f := newFixture()
	created := f.file(t, asUserA, 10)
	f.repo.followups[created.ID] = true
	path := fmt.Sprintf("/complaints/%d", created.ID)

	rec := f.do(http.MethodDelete, path, asUserA, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.repo.followups[created.ID] = false
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, path, asUserA, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, path, asUserA, "").Code)
}

func TestListByUser(t *testing.T) {
	f := newFixture()
	f.file(t, asUserA, 10)
	f.file(t, asUserA, 10)
	f.file(t, asUserB, 20)

	rec := f.do(http.MethodGet, "/complaints/user/10", asUserA, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page pagination.Page[ComplaintResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalElements)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/complaints/user/10", asUserB, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/complaints/user/10", asAdmin, "").Code)
}

func TestAdminListOnly(t *testing.T) {
	f := newFixture()
	f.file(t, asUserA, 10)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/complaints", asUserA, "").Code)

	rec := f.do(http.MethodGet, "/complaints?description=LIXO", asAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page pagination.Page[ComplaintResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalElements)
}
