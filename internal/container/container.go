package container

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/batch"
	"github.com/FACorreiaa/go-trip-planner/internal/api/geocode"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/weather"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/cache"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/governor"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/httpclient"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/retry"
	"github.com/FACorreiaa/go-trip-planner/internal/tools"
)

// Container holds all application dependencies. It is the single owner of
// the process-wide shared state (HTTP client, governor, cache); nothing in
// the fetch core keeps module-level globals.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Cache    *cache.Tiered
	Governor *governor.Governor
	HTTP     *httpclient.Manager

	PlacesService  places.Service
	GeocodeService geocode.Service
	WeatherService weather.Service
	BatchService   batch.Service

	Registry    *tools.Registry
	ToolHandler *tools.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	metrics.InitAppMetrics()

	// Cache: durable Redis tier when configured and reachable, in-process
	// tier otherwise. A dead Redis at boot is degraded mode, not a failure.
	memory := cache.NewMemory(cfg.Fetch.CacheTTL())
	var backend cache.Backend
	if cfg.Redis.Addr != "" {
		redisBackend, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("Redis cache backend unavailable, using in-process cache only",
				slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
		} else {
			backend = redisBackend
		}
	}
	store := cache.NewTiered(backend, memory, logger)

	gov := governor.New(cfg.Fetch.ConcurrentRequests, cfg.Fetch.RateLimitPerMinute, cfg.Fetch.RateLimitPerDay)

	manager := httpclient.NewManager(httpclient.Options{
		RequestTimeout: cfg.Fetch.RequestTimeout,
		ConnectTimeout: cfg.Fetch.ConnectTimeout,
		IdleConnTTL:    cfg.Fetch.IdleConnTTL,
		MaxPerHost:     cfg.Fetch.ConcurrentRequests,
	}, logger)

	runner := &fetch.Runner{
		Governor: gov,
		Retry:    retry.NewPolicy(cfg.Fetch.RetryMaxAttempts, cfg.Fetch.RetryMinWait, cfg.Fetch.RetryMaxWait, logger),
		HTTP:     manager,
		Logger:   logger,
	}

	// Initialize fetcher services
	placesService := places.NewService(runner, store, cfg.Upstream, cfg.Fetch, logger)
	geocodeService := geocode.NewService(runner, store, cfg.Upstream, cfg.Fetch, logger)
	weatherService := weather.NewService(runner, store, cfg.Upstream, cfg.Fetch, logger)
	batchService := batch.NewService(placesService, cfg.Fetch, logger)

	// Initialize the tool surface
	registry := tools.NewTravelRegistry(placesService, geocodeService, weatherService, batchService, logger)
	toolHandler := tools.NewHandlerImpl(registry, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Cache:          store,
		Governor:       gov,
		HTTP:           manager,
		PlacesService:  placesService,
		GeocodeService: geocodeService,
		WeatherService: weatherService,
		BatchService:   batchService,
		Registry:       registry,
		ToolHandler:    toolHandler,
	}, nil
}

// Shutdown releases the shared outbound client and the cache backend. It is
// called from the host's graceful-termination path and is safe to call more
// than once.
func (c *Container) Shutdown() {
	c.HTTP.Close()
	if err := c.Cache.Close(); err != nil {
		c.Logger.Warn("Failed to close cache backend", slog.Any("error", err))
	}
}
