package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/cache"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the address geocoding contract.
type Service interface {
	Geocode(ctx context.Context, address string) (*types.GeoPoint, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	cache    cache.Store
	runner   *fetch.Runner
	upstream config.UpstreamConfig
	cfg      config.FetchConfig
}

// NewService creates a new geocode fetcher instance.
func NewService(runner *fetch.Runner, store cache.Store, upstream config.UpstreamConfig, cfg config.FetchConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		cache:    store,
		runner:   runner,
		upstream: upstream,
		cfg:      cfg,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates. ZERO_RESULTS maps to
// types.ErrNotFound and is never cached.
func (s *ServiceImpl) Geocode(ctx context.Context, address string) (*types.GeoPoint, error) {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("address", address),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Geocode"), slog.String("address", address))

	if s.upstream.MapsAPIKey == "" {
		return nil, types.ErrMissingAPIKey
	}

	key := fetch.CacheKey("geocode", address)
	if cached, ok := cache.GetJSON[types.GeoPoint](ctx, s.cache, key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		l.DebugContext(ctx, "Geocode served from cache")
		return &cached, nil
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	var resp geocodeResponse
	build := func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("address", address)
		q.Set("key", s.upstream.MapsAPIKey)
		return http.NewRequestWithContext(ctx, http.MethodGet,
			s.upstream.GeocodeBaseURL+"?"+q.Encode(), nil)
	}
	if err := s.runner.Do(ctx, "geocode", build, &resp); err != nil {
		l.ErrorContext(ctx, "Geocode lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocode lookup failed")
		return nil, fmt.Errorf("error geocoding address: %w", err)
	}

	if resp.Status == "ZERO_RESULTS" || len(resp.Results) == 0 {
		return nil, types.ErrNotFound
	}
	if resp.Status != "OK" {
		err := fmt.Errorf("geocoding returned status %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocode upstream status")
		return nil, err
	}

	point := types.GeoPoint{
		Lat: resp.Results[0].Geometry.Location.Lat,
		Lng: resp.Results[0].Geometry.Location.Lng,
	}
	cache.SetJSON(ctx, s.cache, key, point, s.cfg.CacheTTL())

	span.SetStatus(codes.Ok, "Address geocoded")
	return &point, nil
}
