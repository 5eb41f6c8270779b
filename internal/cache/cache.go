// AngelaMos | 2026
// cache.go

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// Store is the key-value backend behind Cache. Listings are grouped in
// namespaces (one per resource type); each namespace has a generation number
// that is part of every entry key, so bumping it invalidates the namespace as
// one atomic step.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Generation(ctx context.Context, namespace string) (int64, error)
	Bump(ctx context.Context, namespace string) (int64, error)
	Ping(ctx context.Context) error
}

var cacheEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "list_cache_events_total",
		Help: "List cache lookups by namespace and result.",
	},
	[]string{"namespace", "result"},
)

type Options struct {
	TTL    time.Duration
	Prefix string
	Logger *slog.Logger
}

type Cache struct {
	store  Store
	ttl    time.Duration
	prefix string
	logger *slog.Logger
	group  singleflight.Group

	hits          atomic.Int64
	misses        atomic.Int64
	errors        atomic.Int64
	invalidations atomic.Int64
}

func New(store Store, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}
	if opts.Prefix == "" {
		opts.Prefix = "cache"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Cache{
		store:  store,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		logger: opts.Logger,
	}
}

// GetOrLoad returns the cached value for key in namespace, calling load on a
// miss. Concurrent misses for the same key share one load. Cache backend
// failures are logged and bypassed.
func GetOrLoad[T any](
	ctx context.Context,
	c *Cache,
	namespace, key string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	gen, err := c.store.Generation(ctx, namespace)
	if err != nil {
		c.recordError(namespace, "generation", err)
		return load(ctx)
	}

	entryKey := c.entryKey(namespace, gen, key)

	data, ok, err := c.store.Get(ctx, entryKey)
	if err != nil {
		c.recordError(namespace, "get", err)
	}
	if ok {
		var cached T
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			c.hits.Add(1)
			cacheEvents.WithLabelValues(namespace, "hit").Inc()
			return cached, nil
		}
	}

	c.misses.Add(1)
	cacheEvents.WithLabelValues(namespace, "miss").Inc()

	v, err, _ := c.group.Do(entryKey, func() (any, error) {
		value, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		encoded, jsonErr := json.Marshal(value)
		if jsonErr != nil {
			c.recordError(namespace, "encode", jsonErr)
			return value, nil
		}

		if setErr := c.store.Set(ctx, entryKey, encoded, c.ttl); setErr != nil {
			c.recordError(namespace, "set", setErr)
		}

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type %T", v)
	}

	return value, nil
}

// Invalidate drops every cached listing of the given namespaces. It must
// succeed before a write is reported as successful.
func (c *Cache) Invalidate(ctx context.Context, namespaces ...string) error {
	var errs []error

	for _, ns := range namespaces {
		gen, err := c.store.Bump(ctx, ns)
		if err != nil {
			cacheEvents.WithLabelValues(ns, "invalidate_error").Inc()
			errs = append(errs, fmt.Errorf("invalidate %s: %w", ns, err))
			continue
		}

		c.invalidations.Add(1)
		cacheEvents.WithLabelValues(ns, "invalidate").Inc()
		c.logger.Debug("cache namespace invalidated",
			"namespace", ns,
			"generation", gen,
		)
	}

	return errors.Join(errs...)
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Errors        int64 `json:"errors"`
	Invalidations int64 `json:"invalidations"`
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Errors:        c.errors.Load(),
		Invalidations: c.invalidations.Load(),
	}
}

func (c *Cache) entryKey(namespace string, gen int64, key string) string {
	return fmt.Sprintf("%s:list:%s:%d:%s", c.prefix, namespace, gen, key)
}

func (c *Cache) recordError(namespace, op string, err error) {
	c.errors.Add(1)
	cacheEvents.WithLabelValues(namespace, "error").Inc()
	c.logger.Warn("list cache unavailable, bypassing",
		"namespace", namespace,
		"op", op,
		"error", err,
	)
}
