// Package cache provides the two-tier result cache used by the fetchers:
// a durable Redis backend when one is configured, with an in-process store
// as fallback. Cache trouble is never fatal; callers see errors as misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrMiss reports that a key is absent (or expired) in a backend.
var ErrMiss = errors.New("cache miss")

// Store is the read/write contract the fetchers depend on. Values are
// JSON-encoded bytes; a ttl of zero means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Backend is a durable cache tier. Get returns ErrMiss for an absent key;
// any other error means the backend itself is unhealthy.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Memory is the in-process tier. Safe for concurrent use.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an in-process cache with the given default lifetime.
// Expired entries are swept every cleanup interval; an expired read behaves
// as a miss regardless of sweep timing.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{store: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.store.Set(key, value, ttl)
}

// GetJSON reads and decodes a cached value. A decode failure is treated as
// a miss so a stale or corrupt entry can simply be overwritten.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	b, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, false
	}
	return out, true
}

// SetJSON encodes and stores a value. Unencodable values are dropped; the
// next read is a miss and the caller refetches.
func SetJSON[T any](ctx context.Context, s Store, key string, v T, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(ctx, key, b, ttl)
}
