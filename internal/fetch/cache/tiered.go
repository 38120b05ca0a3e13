package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Tiered prefers the durable backend and absorbs every backend failure into
// the in-process tier. Callers cannot distinguish a broken backend from a
// plain miss, which is exactly the contract the fetchers rely on.
type Tiered struct {
	backend Backend // may be nil when no durable cache is configured
	memory  *Memory
	logger  *slog.Logger
}

var _ Store = (*Tiered)(nil)

// NewTiered wires the tiers together. Passing a nil backend yields a purely
// in-process cache.
func NewTiered(backend Backend, memory *Memory, logger *slog.Logger) *Tiered {
	return &Tiered{backend: backend, memory: memory, logger: logger}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if t.backend != nil {
		b, err := t.backend.Get(ctx, key)
		if err == nil {
			return b, true
		}
		if !errors.Is(err, ErrMiss) {
			t.logger.WarnContext(ctx, "Cache backend read failed, falling back to memory",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return t.memory.Get(ctx, key)
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if t.backend != nil {
		err := t.backend.Set(ctx, key, value, ttl)
		if err == nil {
			return
		}
		t.logger.WarnContext(ctx, "Cache backend write failed, falling back to memory",
			slog.String("key", key), slog.Any("error", err))
	}
	t.memory.Set(ctx, key, value, ttl)
}

// Close releases the durable backend, if any. Idempotent.
func (t *Tiered) Close() error {
	if t.backend == nil {
		return nil
	}
	err := t.backend.Close()
	t.backend = nil
	return err
}
