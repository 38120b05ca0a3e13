// Package retry wraps transient-failure-prone upstream calls with bounded
// exponential backoff. All fetchers share one policy so retry parameters
// cannot drift between lookup kinds.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy retries an operation up to MaxAttempts total, waiting exponentially
// between MinWait and MaxWait. Context cancellation abandons the remaining
// attempts immediately.
type Policy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
	Logger      *slog.Logger
}

// NewPolicy fills unset values with the defaults: 3 attempts, 2s floor, 10s ceiling.
func NewPolicy(maxAttempts int, minWait, maxWait time.Duration, logger *slog.Logger) Policy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if minWait <= 0 {
		minWait = 2 * time.Second
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	return Policy{MaxAttempts: maxAttempts, MinWait: minWait, MaxWait: maxWait, Logger: logger}
}

// Permanent marks an error as non-retryable: it propagates to the caller
// without consuming further attempts. Use it for 4xx application errors and
// malformed responses.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the policy. The final error, transient or permanent, is
// always returned to the caller; nothing is swallowed.
func (p Policy) Do(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.MinWait
	bo.MaxInterval = p.MaxWait
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	b := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1)), ctx)

	notify := func(err error, wait time.Duration) {
		if p.Logger != nil {
			p.Logger.WarnContext(ctx, "Transient upstream failure, retrying",
				slog.Duration("wait", wait), slog.Any("error", err))
		}
	}
	return backoff.RetryNotify(op, b, notify)
}
