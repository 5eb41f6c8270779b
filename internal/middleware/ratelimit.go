// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/ecodenuncia/internal/config"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

const (
	maxLocalBuckets = 10_000
	localBucketTTL  = 10 * time.Minute
)

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

// RateLimiter enforces a GCRA limit per key through Redis so every replica
// shares one budget. Without Redis, or while it is unreachable, each replica
// falls back to its own token buckets.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local:  newLocalBuckets(cfg.Limit),
		config: cfg,
	}
	if rdb != nil {
		rl.shared = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.WarnContext(r.Context(), "rate limiter unavailable, failing open",
					"key", key,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
			))
			return
		}

		writeLimitHeaders(w.Header(), res)

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.NewAppError(
				core.ErrRateLimited,
				fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
				http.StatusTooManyRequests,
				"RATE_LIMITED",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (*redis_rate.Result, error) {
	if rl.shared != nil {
		res, err := rl.shared.Allow(ctx, key, rl.config.Limit)
		if err == nil {
			return res, nil
		}
		slog.DebugContext(ctx, "redis rate limit failed, using local bucket", "error", err)
	}
	return rl.local.allow(key), nil
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	limit := res.Limit
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
}

// KeyByIP trusts the last X-Forwarded-For hop, which is the one appended by
// the proxy in front of the service.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != 0 {
		return "ratelimit:user:" + strconv.FormatInt(userID, 10)
	}
	return KeyByIP(r)
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: time.Minute}
}

func LimitFromConfig(cfg config.RateLimitConfig) redis_rate.Limit {
	if cfg.Window <= 0 {
		return PerMinute(cfg.Requests, cfg.Burst)
	}
	return redis_rate.Limit{Rate: cfg.Requests, Burst: cfg.Burst, Period: cfg.Window}
}

// localBuckets keeps one token bucket per key; idle keys age out of the LRU.
type localBuckets struct {
	mu      sync.Mutex
	limit   redis_rate.Limit
	every   rate.Limit
	buckets *expirable.LRU[string, *rate.Limiter]
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	every := rate.Inf
	if limit.Rate > 0 && limit.Period > 0 {
		every = rate.Every(limit.Period / time.Duration(limit.Rate))
	}
	return &localBuckets{
		limit:   limit,
		every:   every,
		buckets: expirable.NewLRU[string, *rate.Limiter](maxLocalBuckets, nil, localBucketTTL),
	}
}

func (b *localBuckets) allow(key string) *redis_rate.Result {
	b.mu.Lock()
	bucket, ok := b.buckets.Get(key)
	if !ok {
		bucket = rate.NewLimiter(b.every, b.limit.Burst)
		b.buckets.Add(key, bucket)
	}
	b.mu.Unlock()

	res := &redis_rate.Result{Limit: b.limit, RetryAfter: -1}

	now := time.Now()
	if bucket.AllowN(now, 1) {
		res.Allowed = 1
	} else if b.every != rate.Inf {
		res.RetryAfter = time.Duration(float64(time.Second) / float64(b.every))
	}

	res.Remaining = max(int(bucket.TokensAt(now)), 0)
	if b.every != rate.Inf {
		res.ResetAfter = time.Duration(float64(time.Second) / float64(b.every))
	}
	return res
}
