package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

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

const (
	searchFieldMask = "places.id,places.name,places.displayName,places.formattedAddress,places.googleMapsUri"
	detailFieldMask = "id,displayName,formattedAddress,rating,userRatingCount,photos," +
		"websiteUri,regularOpeningHours,reviews,internationalPhoneNumber," +
		"nationalPhoneNumber,googleMapsUri"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the place lookup contract for the tool surface and the
// batch orchestrator.
type Service interface {
	SearchPlace(ctx context.Context, query string) (*types.PlaceSummary, error)
	PlaceDetails(ctx context.Context, query string) (*types.PlaceDetails, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	cache    cache.Store
	runner   *fetch.Runner
	upstream config.UpstreamConfig
	cfg      config.FetchConfig
}

// NewService creates a new place fetcher instance.
func NewService(runner *fetch.Runner, store cache.Store, upstream config.UpstreamConfig, cfg config.FetchConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		cache:    store,
		runner:   runner,
		upstream: upstream,
		cfg:      cfg,
	}
}

// SearchPlace resolves a free-text query to a place summary. An empty
// upstream result set returns types.ErrNotFound and is never cached.
func (s *ServiceImpl) SearchPlace(ctx context.Context, query string) (*types.PlaceSummary, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchPlace", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchPlace"), slog.String("query", query))

	if s.upstream.MapsAPIKey == "" {
		return nil, types.ErrMissingAPIKey
	}

	key := fetch.CacheKey("search", query)
	if cached, ok := cache.GetJSON[types.PlaceSummary](ctx, s.cache, key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		l.DebugContext(ctx, "Place search served from cache")
		return &cached, nil
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	payload, err := s.searchText(ctx, query)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Place search failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Place search failed")
		}
		return nil, err
	}

	id, err := extractPlaceID(*payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Missing place id")
		return nil, err
	}

	summary := types.PlaceSummary{
		ID:      id,
		Name:    displayName(*payload),
		Address: payload.FormattedAddress,
		MapsURL: payload.GoogleMapsURI,
	}
	cache.SetJSON(ctx, s.cache, key, summary, s.cfg.CacheTTL())

	span.SetStatus(codes.Ok, "Place found")
	return &summary, nil
}

// PlaceDetails resolves a free-text query to the full normalized details
// record: search first, then a details lookup on the extracted id.
func (s *ServiceImpl) PlaceDetails(ctx context.Context, query string) (*types.PlaceDetails, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "PlaceDetails", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "PlaceDetails"), slog.String("query", query))

	if s.upstream.MapsAPIKey == "" {
		return nil, types.ErrMissingAPIKey
	}

	key := fetch.CacheKey("details", query)
	if cached, ok := cache.GetJSON[types.PlaceDetails](ctx, s.cache, key); ok {
		metrics.Get().CacheHitsTotal.Add(ctx, 1)
		l.DebugContext(ctx, "Place details served from cache")
		return &cached, nil
	}
	metrics.Get().CacheMissesTotal.Add(ctx, 1)

	summary, err := s.SearchPlace(ctx, query)
	if err != nil {
		return nil, err
	}

	var payload placePayload
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/places/%s", s.upstream.PlacesBaseURL, summary.ID), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Goog-Api-Key", s.upstream.MapsAPIKey)
		req.Header.Set("X-Goog-FieldMask", detailFieldMask)
		return req, nil
	}
	if err := s.runner.Do(ctx, "details", build, &payload); err != nil {
		l.ErrorContext(ctx, "Place details lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place details lookup failed")
		return nil, fmt.Errorf("error fetching place details: %w", err)
	}

	details := types.PlaceDetails{
		ID:           summary.ID,
		Name:         displayName(payload),
		Address:      payload.FormattedAddress,
		Rating:       coerceFloat(payload.Rating),
		TotalRatings: coerceInt(payload.UserRatingCount),
		Photos:       photoURLs(payload.Photos, s.upstream.MapsAPIKey, s.cfg.MaxPhotos, s.cfg.PhotoMaxWidthPx),
		Reviews:      topReviews(payload.Reviews, s.cfg.MaxReviews),
		Website:      payload.WebsiteURI,
		Phone:        phoneNumber(payload),
		MapsURL:      payload.GoogleMapsURI,
	}
	if payload.OpeningHours != nil {
		details.OpeningHours = payload.OpeningHours.WeekdayDescriptions
	}
	if details.Name == "" {
		details.Name = summary.Name
	}
	if details.Address == "" {
		details.Address = summary.Address
	}

	cache.SetJSON(ctx, s.cache, key, details, s.cfg.CacheTTL())

	l.InfoContext(ctx, "Place details fetched",
		slog.Int("photos", len(details.Photos)), slog.Int("reviews", len(details.Reviews)))
	span.SetStatus(codes.Ok, "Place details fetched")
	return &details, nil
}

// searchText issues the text search call and returns the first hit, or
// types.ErrNotFound for an empty result set.
func (s *ServiceImpl) searchText(ctx context.Context, query string) (*placePayload, error) {
	body, err := json.Marshal(map[string]any{
		"textQuery":      query,
		"maxResultCount": 1,
		"languageCode":   "en",
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.upstream.PlacesBaseURL+"/places:searchText", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Goog-Api-Key", s.upstream.MapsAPIKey)
		req.Header.Set("X-Goog-FieldMask", searchFieldMask)
		return req, nil
	}
	if err := s.runner.Do(ctx, "search", build, &resp); err != nil {
		return nil, fmt.Errorf("error searching place: %w", err)
	}

	if len(resp.Places) == 0 {
		return nil, types.ErrNotFound
	}
	return &resp.Places[0], nil
}
