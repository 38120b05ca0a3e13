package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

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

// Forecasts go stale fast; never cache them longer than this regardless of
// the configured default TTL.
const maxWeatherTTL = time.Hour

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the daily forecast contract.
type Service interface {
	WeatherSummary(ctx context.Context, lat, lng float64, days int) (types.WeatherSummary, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	cache    cache.Store
	runner   *fetch.Runner
	upstream config.UpstreamConfig
	cfg      config.FetchConfig
}

// NewService creates a new weather fetcher instance.
func NewService(runner *fetch.Runner, store cache.Store, upstream config.UpstreamConfig, cfg config.FetchConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		cache:    store,
		runner:   runner,
		upstream: upstream,
		cfg:      cfg,
	}
}

type forecastResponse struct {
	ForecastDays []forecastDay `json:"forecastDays"`
}

type forecastDay struct {
	DisplayDate struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"displayDate"`
	DaytimeForecast struct {
		WeatherCondition struct {
			Description struct {
				Text string `json:"text"`
			} `json:"description"`
		} `json:"weatherCondition"`
	} `json:"daytimeForecast"`
	MaxTemperature struct {
		Degrees float64 `json:"degrees"`
	} `json:"maxTemperature"`
	MinTemperature struct {
		Degrees float64 `json:"degrees"`
	} `json:"minTemperature"`
}

// WeatherSummary returns a per-day forecast map keyed by ISO date. A missing
// weather API key yields an empty map, not an error: an itinerary without a
// forecast is still an itinerary.
func (s *ServiceImpl) WeatherSummary(ctx context.Context, lat, lng float64, days int) (types.WeatherSummary, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "WeatherSummary", trace.WithAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lng", lng),
		attribute.Int("days", days),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "WeatherSummary"))

	if s.upstream.WeatherAPIKey == "" {
		l.DebugContext(ctx, "Weather API key not configured, returning empty summary")
		return types.WeatherSummary{}, nil
	}
	if days <= 0 {
		days = 1
	}

	key := fmt.Sprintf("weather:%.4f,%.4f:%d", lat, lng, days)
	if cached, ok := cache.GetJSON[types.WeatherSummary](ctx, s.cache, key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		l.DebugContext(ctx, "Weather summary served from cache")
		return cached, nil
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	var resp forecastResponse
	build := func(ctx context.Context) (*http.Request, error) {
		q := url.Values{}
		q.Set("key", s.upstream.WeatherAPIKey)
		q.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
		q.Set("days", strconv.Itoa(days))
		return http.NewRequestWithContext(ctx, http.MethodGet,
			s.upstream.WeatherBaseURL+"/forecast/days:lookup?"+q.Encode(), nil)
	}
	if err := s.runner.Do(ctx, "weather", build, &resp); err != nil {
		l.ErrorContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather lookup failed")
		return nil, fmt.Errorf("error fetching weather summary: %w", err)
	}

	if len(resp.ForecastDays) == 0 {
		return nil, types.ErrNotFound
	}

	summary := make(types.WeatherSummary, len(resp.ForecastDays))
	for _, day := range resp.ForecastDays {
		date := fmt.Sprintf("%04d-%02d-%02d", day.DisplayDate.Year, day.DisplayDate.Month, day.DisplayDate.Day)
		minT := day.MinTemperature.Degrees
		maxT := day.MaxTemperature.Degrees
		summary[date] = types.WeatherDay{
			Summary: day.DaytimeForecast.WeatherCondition.Description.Text,
			AvgTemp: (minT + maxT) / 2,
			TempMin: minT,
			TempMax: maxT,
		}
	}

	cache.SetJSON(ctx, s.cache, key, summary, s.weatherTTL())

	span.SetStatus(codes.Ok, "Weather summary fetched")
	return summary, nil
}

func (s *ServiceImpl) weatherTTL() time.Duration {
	ttl := s.cfg.CacheTTL()
	if ttl <= 0 || ttl > maxWeatherTTL {
		return maxWeatherTTL
	}
	return ttl
}
