package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service fans a list of place lookups out across the details fetcher with
// capped chunk size and inter-chunk pacing.
type Service interface {
	FetchPlaceDetails(ctx context.Context, queries []string) []types.BatchResult
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger *slog.Logger
	places places.Service
	cfg    config.FetchConfig
}

// NewService creates a new batch orchestrator instance.
func NewService(placesSvc places.Service, cfg config.FetchConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, places: placesSvc, cfg: cfg}
}

// FetchPlaceDetails deduplicates queries (first occurrence wins, original
// spelling preserved), splits them into fixed-size chunks and fetches each
// chunk concurrently. One item's failure never aborts its siblings; every
// unique query gets exactly one entry, in first-occurrence order.
func (s *ServiceImpl) FetchPlaceDetails(ctx context.Context, queries []string) []types.BatchResult {
	jobID := uuid.New()
	ctx, span := otel.Tracer("BatchService").Start(ctx, "FetchPlaceDetails", trace.WithAttributes(
		attribute.String("job.id", jobID.String()),
		attribute.Int("queries", len(queries)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FetchPlaceDetails"), slog.String("jobID", jobID.String()))

	unique := dedupe(queries)
	results := make([]types.BatchResult, len(unique))

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	pause := s.cfg.BatchPause
	if pause <= 0 {
		pause = 500 * time.Millisecond
	}

	l.InfoContext(ctx, "Starting batch place lookup",
		slog.Int("unique", len(unique)), slog.Int("batch_size", batchSize))

	for start := 0; start < len(unique); start += batchSize {
		end := start + batchSize
		if end > len(unique) {
			end = len(unique)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = s.fetchOne(ctx, unique[idx])
			}(i)
		}
		wg.Wait()

		// Pace the next chunk to smooth burst load on upstream quotas.
		if end < len(unique) {
			select {
			case <-ctx.Done():
				for i := end; i < len(unique); i++ {
					results[i] = types.BatchResult{Query: unique[i], Error: ctx.Err().Error()}
				}
				span.SetStatus(codes.Error, "Batch cancelled")
				return results
			case <-time.After(pause):
			}
		}
	}

	span.SetStatus(codes.Ok, "Batch completed")
	return results
}

// fetchOne isolates a single item: any failure, including a panic below the
// fetcher, becomes that item's error entry.
func (s *ServiceImpl) fetchOne(ctx context.Context, query string) (res types.BatchResult) {
	res.Query = query
	defer func() {
		if r := recover(); r != nil {
			res.Details = nil
			res.Error = fmt.Sprintf("panic during fetch: %v", r)
		}
	}()

	details, err := s.places.PlaceDetails(ctx, query)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Details = details
	return res
}

// dedupe drops repeated queries under normalization, keeping the first
// occurrence's original spelling and position.
func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		norm := fetch.NormalizeQuery(q)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, q)
	}
	return out
}
