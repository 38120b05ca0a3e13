package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	t.Run("round trip", func(t *testing.T) {
		m.Set(ctx, "k", []byte("v"), time.Minute)
		got, ok := m.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("absent key misses", func(t *testing.T) {
		_, ok := m.Get(ctx, "nope")
		assert.False(t, ok)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		m.Set(ctx, "forever", []byte("v"), 0)
		time.Sleep(10 * time.Millisecond)
		_, ok := m.Get(ctx, "forever")
		assert.True(t, ok)
	})

	t.Run("expired read is a miss", func(t *testing.T) {
		m.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
		_, ok := m.Get(ctx, "short")
		require.True(t, ok, "entry should be present before expiry")

		time.Sleep(30 * time.Millisecond)
		_, ok = m.Get(ctx, "short")
		assert.False(t, ok, "read past expiry must behave as a miss")
	})
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	type sample struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("round trip", func(t *testing.T) {
		SetJSON(ctx, m, "s", sample{Name: "lisbon", Count: 3}, time.Minute)
		got, ok := GetJSON[sample](ctx, m, "s")
		require.True(t, ok)
		assert.Equal(t, sample{Name: "lisbon", Count: 3}, got)
	})

	t.Run("corrupt entry is a miss", func(t *testing.T) {
		m.Set(ctx, "bad", []byte("{not json"), time.Minute)
		_, ok := GetJSON[sample](ctx, m, "bad")
		assert.False(t, ok)
	})
}

// flakyBackend fails every operation with a non-miss error.
type flakyBackend struct {
	mu    sync.Mutex
	gets  int
	sets  int
	err   error
	store map[string][]byte
}

func (f *flakyBackend) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.store[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (f *flakyBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string][]byte{}
	}
	f.store[key] = value
	return nil
}

func (f *flakyBackend) Close() error { return nil }

func TestTiered(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers healthy backend", func(t *testing.T) {
		backend := &flakyBackend{}
		tiered := NewTiered(backend, NewMemory(time.Minute), testLogger())

		tiered.Set(ctx, "k", []byte("v"), time.Minute)
		got, ok := tiered.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), got)
		assert.Equal(t, 1, backend.sets)
	})

	t.Run("backend failure falls back to memory", func(t *testing.T) {
		backend := &flakyBackend{err: errors.New("connection refused")}
		tiered := NewTiered(backend, NewMemory(time.Minute), testLogger())

		// Write lands in memory because the backend errors.
		tiered.Set(ctx, "k", []byte("v"), time.Minute)
		got, ok := tiered.Get(ctx, "k")
		require.True(t, ok, "backend error must behave like a miss, served from memory")
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("nil backend is purely in-process", func(t *testing.T) {
		tiered := NewTiered(nil, NewMemory(time.Minute), testLogger())
		tiered.Set(ctx, "k", []byte("v"), time.Minute)
		_, ok := tiered.Get(ctx, "k")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		tiered := NewTiered(&flakyBackend{}, NewMemory(time.Minute), testLogger())
		require.NoError(t, tiered.Close())
		require.NoError(t, tiered.Close())
	})
}
