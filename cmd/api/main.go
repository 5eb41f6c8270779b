// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/admin"
	"github.com/carterperez-dev/ecodenuncia/internal/auth"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/city"
	"github.com/carterperez-dev/ecodenuncia/internal/complaint"
	"github.com/carterperez-dev/ecodenuncia/internal/config"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/followup"
	"github.com/carterperez-dev/ecodenuncia/internal/health"
	"github.com/carterperez-dev/ecodenuncia/internal/location"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
	"github.com/carterperez-dev/ecodenuncia/internal/neighborhood"
	"github.com/carterperez-dev/ecodenuncia/internal/organization"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
	"github.com/carterperez-dev/ecodenuncia/internal/server"
	"github.com/carterperez-dev/ecodenuncia/internal/state"
	"github.com/carterperez-dev/ecodenuncia/internal/user"
)

const (
	drainDelay = 5 * time.Second
	apiPrefix  = "/v1"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	if cfg.JWT.Secret == "" {
		secret, genErr := core.GenerateSecureToken(32)
		if genErr != nil {
			return genErr
		}
		cfg.JWT.Secret = secret
		logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	pagination.Configure(cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	var (
		rdb        *core.Redis
		redisStats func() *redis.PoolStats
		rateClient *redis.Client
	)
	if cfg.Redis.URL != "" {
		rdb, err = core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisStats = rdb.PoolStats
		rateClient = rdb.Client
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	}

	var store cache.Store
	switch cfg.Cache.Driver {
	case "redis":
		store = cache.NewRedisStore(rdb.Client, cfg.Cache.Prefix)
	default:
		store = cache.NewMemoryStore(cfg.Cache.LocalSize, cfg.Cache.TTL)
	}
	listCache := cache.New(store, cache.Options{
		TTL:    cfg.Cache.TTL,
		Prefix: cfg.Cache.Prefix,
		Logger: logger,
	})
	logger.Info("list cache initialized",
		"driver", cfg.Cache.Driver,
		"ttl", cfg.Cache.TTL,
	)

	tokens, err := auth.NewTokenCodec(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token codec initialized",
		"algorithm", "HS256",
		"key_id", tokens.KeyID(),
	)

	stateSvc := state.NewService(state.NewRepository(db.DB), listCache)
	citySvc := city.NewService(city.NewRepository(db.DB), stateSvc, listCache)
	neighborhoodSvc := neighborhood.NewService(
		neighborhood.NewRepository(db.DB), citySvc, listCache,
	)
	locationSvc := location.NewService(
		location.NewRepository(db.DB), neighborhoodSvc, listCache,
	)
	organizationSvc := organization.NewService(
		organization.NewRepository(db.DB), listCache,
	)
	userSvc := user.NewService(user.NewRepository(db.DB), listCache)
	authSvc := auth.NewService(tokens, userSvc)
	complaintSvc := complaint.NewService(
		complaint.NewRepository(db.DB),
		complaint.References{
			Users:         userSvc,
			Locations:     locationSvc,
			Organizations: organizationSvc,
		},
		listCache,
	)
	followupSvc := followup.NewService(
		followup.NewRepository(db.DB), complaintSvc, listCache,
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "cache", Checker: listCache},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		DBPing:     db.Ping,
		RedisStats: redisStats,
		Cache:      listCache,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		ServiceName:   cfg.Otel.ServiceName,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	limiter := middleware.NewRateLimiter(rateClient, middleware.RateLimitConfig{
		Limit:    middleware.LimitFromConfig(cfg.RateLimit),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	})

	router.Route(apiPrefix, func(r chi.Router) {
		r.Use(middleware.Authorize(access.DefaultRules(apiPrefix), tokens))
		r.Use(limiter.Handler)

		auth.NewHandler(authSvc).RegisterRoutes(r)
		user.NewHandler(userSvc).RegisterRoutes(r)
		state.NewHandler(stateSvc).RegisterRoutes(r)
		city.NewHandler(citySvc).RegisterRoutes(r)
		neighborhood.NewHandler(neighborhoodSvc).RegisterRoutes(r)
		location.NewHandler(locationSvc).RegisterRoutes(r)
		organization.NewHandler(organizationSvc).RegisterRoutes(r)
		complaint.NewHandler(complaintSvc).RegisterRoutes(r)
		followup.NewHandler(followupSvc).RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
