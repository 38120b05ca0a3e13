package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/governor"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/httpclient"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/retry"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Upstream bodies we decode are small; cap reads so a misbehaving endpoint
// cannot balloon memory.
const maxBodyBytes = 4 << 20

// UpstreamError is a non-2xx upstream response. 429 and 5xx are transient;
// everything else is permanent and never retried.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// Transient reports whether the response status is worth retrying.
func (e *UpstreamError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Runner executes one upstream call through the shared governor, retry
// policy and HTTP client. All fetchers go through Do, so admission control
// and retry parameters cannot drift between lookup kinds.
type Runner struct {
	Governor *governor.Governor
	Retry    retry.Policy
	HTTP     *httpclient.Manager
	Logger   *slog.Logger
}

// Do acquires a governor slot, runs the request built by build under the
// retry policy and decodes the successful JSON body into out (skipped when
// out is nil). The slot is released on every exit path.
func (r *Runner) Do(ctx context.Context, kind string, build func(ctx context.Context) (*http.Request, error), out any) error {
	m := metrics.Get()
	kindAttr := metric.WithAttributes(attribute.String("kind", kind))

	if err := r.Governor.Acquire(ctx); err != nil {
		if errors.Is(err, types.ErrRateLimitExceeded) {
			m.RateLimitRejectionsTotal.Add(ctx, 1, kindAttr)
		}
		return err
	}
	defer r.Governor.Release()

	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			m.RetriesTotal.Add(ctx, 1, kindAttr)
		}

		req, err := build(ctx)
		if err != nil {
			return retry.Permanent(err)
		}

		m.UpstreamRequestsTotal.Add(ctx, 1, kindAttr)
		start := time.Now()
		resp, err := r.HTTP.Client().Do(req)
		if err != nil {
			// Transport-level failures (connect errors, timeouts) are transient.
			m.UpstreamErrorsTotal.Add(ctx, 1, kindAttr)
			return err
		}
		defer resp.Body.Close()
		m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(), kindAttr)

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			m.UpstreamErrorsTotal.Add(ctx, 1, kindAttr)
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return retry.Permanent(fmt.Errorf("malformed upstream payload: %w", err))
			}
			return nil
		}

		m.UpstreamErrorsTotal.Add(ctx, 1, kindAttr)
		upErr := &UpstreamError{Status: resp.StatusCode, Body: truncate(string(body), 256)}
		if upErr.Transient() {
			return upErr
		}
		return retry.Permanent(upErr)
	}

	return r.Retry.Do(ctx, op)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
