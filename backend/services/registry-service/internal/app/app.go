package app

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargesol/backend/libs/db"
	libredis "chargesol/backend/libs/redis"
	"chargesol/backend/services/registry-service/internal/auth"
	"chargesol/backend/services/registry-service/internal/clients"
	"chargesol/backend/services/registry-service/internal/config"
	"chargesol/backend/services/registry-service/internal/feed"
	"chargesol/backend/services/registry-service/internal/geocode"
	httpserver "chargesol/backend/services/registry-service/internal/http"
	"chargesol/backend/services/registry-service/internal/http/handlers"
	"chargesol/backend/services/registry-service/internal/http/middleware"
	"chargesol/backend/services/registry-service/internal/metrics"
	redisstore "chargesol/backend/services/registry-service/internal/redis"
	"chargesol/backend/services/registry-service/internal/repository"
	"chargesol/backend/services/registry-service/internal/service"
	"chargesol/backend/services/registry-service/internal/wizard"
	"chargesol/backend/services/registry-service/migrations"
)

// App wires registry-service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	hub         *feed.Hub
	logger      *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, sqlDB, migrations.FS); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	var (
		redisClient *redis.Client
		drafts      service.DraftStore
	)
	if cfg.UseRedis() {
		redisClient, err = libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		drafts = redisstore.NewStore(redisClient, cfg.Drafts.TTL)
	} else {
		logger.Warn("redis not configured, keeping registration drafts in memory")
		drafts = service.NewMemoryDraftStore(cfg.Drafts.TTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	hub := feed.NewHub(cfg.Feed.PingInterval, cfg.Feed.WriteTimeout, logger.Named("feed"))

	deps := service.Deps{
		Drafts:    drafts,
		Stations:  repository.NewStationRepository(sqlDB),
		Publisher: hub,
		Metrics:   m,
		Logger:    logger,
	}
	if cfg.GeocoderEnabled() {
		deps.Geocoder = geocode.NewClient(cfg.Geocoder.URL, clients.NewDefaultHTTPClient(cfg.Geocoder.Timeout))
	}

	policy := wizard.GuardedProgression
	if !cfg.Drafts.Guarded {
		policy = wizard.UnguardedProgression
	}
	registrationService, err := service.NewRegistrationService(deps, policy)
	if err != nil {
		sqlDB.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0)
	routes := httpserver.Routes{
		Health:        handlers.NewHealthHandler(),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Stations:      handlers.NewStationsHandler(registrationService, logger),
		StationFeed:   hub.HandleWS,
		Registrations: handlers.NewRegistrationHandler(registrationService, logger),
		Auth:          middleware.AuthMiddleware(tokens),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	logger.Info("registry-service configured",
		zap.Bool("redis_drafts", cfg.UseRedis()),
		zap.Bool("geocoding", cfg.GeocoderEnabled()),
		zap.Bool("guarded_steps", cfg.Drafts.Guarded),
		zap.Duration("draft_ttl", cfg.Drafts.TTL),
	)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		hub:         hub,
		logger:      logger,
	}, nil
}

// Run starts HTTP server. Feed subscribers are disconnected on shutdown since
// hijacked connections are not drained by the server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx, a.hub.Close)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
