// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
)

type page struct {
	Total int `json:"total"`
}

func newRouter(c *cache.Cache) http.Handler {
	h := NewHandler(HandlerConfig{Cache: c})

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
	return r
}

func do(router http.Handler, method, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFlushResourceCascadesToDependents(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NewMemoryStore(32, time.Minute), cache.Options{})
	router := newRouter(c)

	loads := map[string]int{}
	load := func(ns string) {
		_, err := cache.GetOrLoad(ctx, c, ns, "k", func(context.Context) (page, error) {
			loads[ns]++
			return page{}, nil
		})
		require.NoError(t, err)
	}

	for _, ns := range []string{cache.Cities, cache.Complaints, cache.Organizations} {
		load(ns)
	}

	rec := do(router, http.MethodDelete, "/admin/cache/cities", access.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var body FlushResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, cache.Affected(cache.Cities), body.Invalidated)

	for _, ns := range []string{cache.Cities, cache.Complaints, cache.Organizations} {
		load(ns)
	}

	assert.Equal(t, 2, loads[cache.Cities])
	assert.Equal(t, 2, loads[cache.Complaints])
	assert.Equal(t, 1, loads[cache.Organizations])
}

func TestFlushUnknownResource(t *testing.T) {
	c := cache.New(cache.NewMemoryStore(8, time.Minute), cache.Options{})

	rec := do(newRouter(c), http.MethodDelete, "/admin/cache/passwords", access.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlushRequiresAdmin(t *testing.T) {
	c := cache.New(cache.NewMemoryStore(8, time.Minute), cache.Options{})
	router := newRouter(c)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/admin/cache", access.RoleUser).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodDelete, "/admin/cache", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodDelete, "/admin/cache", access.RoleAdmin).Code)
	assert.Equal(t, int64(len(cache.Namespaces())), c.Stats().Invalidations)
}

func TestCacheStats(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NewMemoryStore(8, time.Minute), cache.Options{})
	for range 2 {
		_, err := cache.GetOrLoad(ctx, c, cache.States, "k", func(context.Context) (page, error) {
			return page{Total: 1}, nil
		})
		require.NoError(t, err)
	}

	rec := do(newRouter(c), http.MethodGet, "/admin/stats/cache", access.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var status CacheStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, int64(1), status.Lists.Hits)
	assert.Equal(t, int64(1), status.Lists.Misses)
	assert.Nil(t, status.Pool)
}
