// Package governor bounds outbound request concurrency and paces call volume
// against upstream quotas. One governor is shared by every fetcher in the
// process, since the place, geocode and weather APIs share one rate budget.
package governor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Governor admits at most a fixed number of concurrent outbound calls and
// tracks rolling per-minute and per-day call counts. Acquire must be paired
// with Release on every exit path.
type Governor struct {
	sem      *semaphore.Weighted
	inFlight atomic.Int64

	mu          sync.Mutex
	perMinute   int
	perDay      int
	minuteCount int
	dayCount    int
	minuteReset time.Time
	dayReset    time.Time

	now func() time.Time // swappable for tests
}

// New builds a governor with the given concurrency ceiling. perMinute and
// perDay of zero disable the respective call-count limits.
func New(concurrent int, perMinute, perDay int) *Governor {
	if concurrent <= 0 {
		concurrent = 10
	}
	return &Governor{
		sem:       semaphore.NewWeighted(int64(concurrent)),
		perMinute: perMinute,
		perDay:    perDay,
		now:       time.Now,
	}
}

// Acquire blocks until a slot is free or ctx is cancelled. It returns
// types.ErrRateLimitExceeded without blocking once a rolling call-count
// window is spent; that condition clears when the window rolls over.
func (g *Governor) Acquire(ctx context.Context) error {
	if err := g.countCall(); err != nil {
		return err
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.inFlight.Add(1)
	return nil
}

// Release frees the slot taken by a successful Acquire.
func (g *Governor) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

// InFlight reports the number of currently admitted calls.
func (g *Governor) InFlight() int64 {
	return g.inFlight.Load()
}

func (g *Governor) countCall() error {
	if g.perMinute <= 0 && g.perDay <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.After(g.minuteReset) {
		g.minuteCount = 0
		g.minuteReset = now.Add(time.Minute)
	}
	if now.After(g.dayReset) {
		g.dayCount = 0
		g.dayReset = now.Add(24 * time.Hour)
	}

	if g.perMinute > 0 && g.minuteCount >= g.perMinute {
		return types.ErrRateLimitExceeded
	}
	if g.perDay > 0 && g.dayCount >= g.perDay {
		return types.ErrRateLimitExceeded
	}

	g.minuteCount++
	g.dayCount++
	return nil
}
