// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
)

// ListCache is the part of the list cache operators can inspect and flush.
type ListCache interface {
	Stats() cache.Stats
	Ping(ctx context.Context) error
	Invalidate(ctx context.Context, namespaces ...string) error
	InvalidateResource(ctx context.Context, ns string) error
}

type Handler struct {
	dbStats    func() sql.DBStats
	dbPing     func(ctx context.Context) error
	redisStats func() *redis.PoolStats
	cache      ListCache
}

// HandlerConfig leaves RedisStats nil when the service runs without Redis.
type HandlerConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	Cache      ListCache
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		dbPing:     cfg.DBPing,
		redisStats: cfg.RedisStats,
		cache:      cfg.Cache,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/cache", h.GetCacheStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)

		r.Delete("/cache", h.FlushAll)
		r.Delete("/cache/{resource}", h.FlushResource)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: h.dbPing == nil || h.dbPing(ctx) == nil,
			Stats:   h.getDBStats(),
		},
		Cache:   h.getCacheStatus(ctx),
		Runtime: readRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getCacheStatus(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

// FlushAll drops every cached listing.
func (h *Handler) FlushAll(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		core.HandleError(w, err, "cache")
		return
	}

	namespaces := cache.Namespaces()
	if err := h.cache.Invalidate(r.Context(), namespaces...); err != nil {
		core.HandleError(w, fmt.Errorf("flush cache: %w", err), "cache")
		return
	}

	slog.InfoContext(r.Context(), "list cache flushed",
		"namespaces", namespaces,
		"user_id", middleware.GetUserID(r.Context()),
	)

	core.OK(w, FlushResponse{Invalidated: namespaces})
}

// FlushResource drops the listings of one resource and of every resource
// whose listings embed it.
func (h *Handler) FlushResource(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		core.HandleError(w, err, "cache")
		return
	}

	resource := chi.URLParam(r, "resource")
	if !cache.IsNamespace(resource) {
		core.NotFound(w, "cache namespace")
		return
	}

	if err := h.cache.InvalidateResource(r.Context(), resource); err != nil {
		core.HandleError(w, fmt.Errorf("flush %s: %w", resource, err), "cache")
		return
	}

	slog.InfoContext(r.Context(), "list cache flushed",
		"resource", resource,
		"user_id", middleware.GetUserID(r.Context()),
	)

	core.OK(w, FlushResponse{Invalidated: cache.Affected(resource)})
}

func (h *Handler) authorize(r *http.Request) error {
	identity := middleware.GetIdentity(r.Context())
	return access.Check(identity, access.ActionDelete, access.AdminOnly("cache"))
}

func (h *Handler) getCacheStatus(ctx context.Context) CacheStatus {
	if h.cache == nil {
		return CacheStatus{}
	}

	status := CacheStatus{
		Healthy: h.cache.Ping(ctx) == nil,
		Lists:   h.cache.Stats(),
	}

	if h.redisStats != nil {
		stats := h.redisStats()
		status.Pool = &RedisPoolStats{
			Hits:       stats.Hits,
			Misses:     stats.Misses,
			Timeouts:   stats.Timeouts,
			TotalConns: stats.TotalConns,
			IdleConns:  stats.IdleConns,
			StaleConns: stats.StaleConns,
		}
	}

	return status
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Cache    CacheStatus    `json:"cache"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type CacheStatus struct {
	Healthy bool            `json:"healthy"`
	Lists   cache.Stats     `json:"lists"`
	Pool    *RedisPoolStats `json:"pool,omitempty"`
}

type FlushResponse struct {
	Invalidated []string `json:"invalidated"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
