package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/cache"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/governor"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/httpclient"
	"github.com/FACorreiaa/go-trip-planner/internal/fetch/retry"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newGeocodeFixture(t *testing.T, body string, calls *atomic.Int64) *ServiceImpl {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NotEmpty(t, r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := &fetch.Runner{
		Governor: governor.New(10, 0, 0),
		Retry:    retry.NewPolicy(3, time.Millisecond, 5*time.Millisecond, logger),
		HTTP:     httpclient.NewManager(httpclient.Options{RequestTimeout: 5 * time.Second}, logger),
		Logger:   logger,
	}
	t.Cleanup(runner.HTTP.Close)

	upstream := config.UpstreamConfig{GeocodeBaseURL: srv.URL, MapsAPIKey: "test-key"}
	return NewService(runner, cache.NewMemory(time.Minute), upstream, config.FetchConfig{CacheTTLSeconds: 60}, logger)
}

func TestGeocode(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and caches coordinates", func(t *testing.T) {
		var calls atomic.Int64
		svc := newGeocodeFixture(t,
			`{"status":"OK","results":[{"geometry":{"location":{"lat":48.8584,"lng":2.2945}}}]}`, &calls)

		got, err := svc.Geocode(ctx, "Champ de Mars, Paris")
		require.NoError(t, err)
		assert.Equal(t, &types.GeoPoint{Lat: 48.8584, Lng: 2.2945}, got)

		again, err := svc.Geocode(ctx, " champ DE mars,  Paris ")
		require.NoError(t, err)
		assert.Equal(t, got, again)
		assert.Equal(t, int64(1), calls.Load(), "equivalent addresses must share one cache entry")
	})

	t.Run("zero results maps to not found and is not cached", func(t *testing.T) {
		var calls atomic.Int64
		svc := newGeocodeFixture(t, `{"status":"ZERO_RESULTS","results":[]}`, &calls)

		_, err := svc.Geocode(ctx, "nowhere")
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = svc.Geocode(ctx, "nowhere")
		require.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		var calls atomic.Int64
		svc := newGeocodeFixture(t,
			`{"status":"REQUEST_DENIED","results":[{"geometry":{"location":{"lat":1,"lng":2}}}]}`, &calls)

		_, err := svc.Geocode(ctx, "somewhere")
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("missing api key short-circuits", func(t *testing.T) {
		var calls atomic.Int64
		svc := newGeocodeFixture(t, `{"status":"OK"}`, &calls)
		svc.upstream.MapsAPIKey = ""

		_, err := svc.Geocode(ctx, "Paris")
		require.ErrorIs(t, err, types.ErrMissingAPIKey)
		assert.Equal(t, int64(0), calls.Load())
	})
}
