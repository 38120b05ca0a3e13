package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubTool(name string, execute func(ctx context.Context, args map[string]any) (any, error)) *Tool {
	return &Tool{
		Tool:    mcp.Tool{Name: name, Description: name},
		Execute: execute,
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry(testLogger(),
		stubTool("alpha", nil),
		stubTool("beta", nil),
	)

	listed := r.List()
	require.Len(t, listed, 2)
	assert.Equal(t, "alpha", listed[0].Name, "declaration order must be preserved")
	assert.Equal(t, "beta", listed[1].Name)
}

func TestRegistry_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("success wraps data", func(t *testing.T) {
		r := NewRegistry(testLogger(), stubTool("echo", func(_ context.Context, args map[string]any) (any, error) {
			return args["msg"], nil
		}))

		res := r.Invoke(ctx, "echo", map[string]any{"msg": "hi"})
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Equal(t, "hi", res.Data)
		assert.Empty(t, res.Error)
	})

	t.Run("not found maps to its own status", func(t *testing.T) {
		r := NewRegistry(testLogger(), stubTool("lookup", func(context.Context, map[string]any) (any, error) {
			return nil, types.ErrNotFound
		}))

		res := r.Invoke(ctx, "lookup", nil)
		assert.Equal(t, StatusNotFound, res.Status)
		assert.Nil(t, res.Data)
	})

	t.Run("wrapped not found still maps", func(t *testing.T) {
		r := NewRegistry(testLogger(), stubTool("lookup", func(context.Context, map[string]any) (any, error) {
			return nil, errors.Join(errors.New("searching place"), types.ErrNotFound)
		}))

		res := r.Invoke(ctx, "lookup", nil)
		assert.Equal(t, StatusNotFound, res.Status)
	})

	t.Run("generic failure becomes error status", func(t *testing.T) {
		r := NewRegistry(testLogger(), stubTool("flaky", func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("upstream exploded")
		}))

		res := r.Invoke(ctx, "flaky", nil)
		assert.Equal(t, StatusError, res.Status)
		assert.Equal(t, "upstream exploded", res.Error)
	})

	t.Run("unknown tool is an error, not a panic", func(t *testing.T) {
		r := NewRegistry(testLogger())
		res := r.Invoke(ctx, "nope", nil)
		assert.Equal(t, StatusError, res.Status)
		assert.Contains(t, res.Error, "unknown tool")
	})

	t.Run("panicking tool is contained", func(t *testing.T) {
		r := NewRegistry(testLogger(), stubTool("boom", func(context.Context, map[string]any) (any, error) {
			panic("nil deref")
		}))

		res := r.Invoke(ctx, "boom", nil)
		assert.Equal(t, StatusError, res.Status)
		assert.Contains(t, res.Error, "internal error")
	})
}

func TestArgReaders(t *testing.T) {
	t.Run("readString", func(t *testing.T) {
		s, err := readString(map[string]any{"q": "hello"}, "q", true)
		require.NoError(t, err)
		assert.Equal(t, "hello", s)

		_, err = readString(map[string]any{}, "q", true)
		assert.Error(t, err)

		s, err = readString(map[string]any{}, "q", false)
		require.NoError(t, err)
		assert.Empty(t, s)

		_, err = readString(map[string]any{"q": 5}, "q", true)
		assert.Error(t, err)
	})

	t.Run("readFloat", func(t *testing.T) {
		f, err := readFloat(map[string]any{"lat": 48.85}, "lat")
		require.NoError(t, err)
		assert.Equal(t, 48.85, f)

		f, err = readFloat(map[string]any{"lat": 48}, "lat")
		require.NoError(t, err)
		assert.Equal(t, 48.0, f)

		_, err = readFloat(map[string]any{"lat": "48"}, "lat")
		assert.Error(t, err)

		_, err = readFloat(map[string]any{}, "lat")
		assert.Error(t, err)
	})

	t.Run("readInt", func(t *testing.T) {
		n, err := readInt(map[string]any{"days": float64(3)}, "days", 5)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = readInt(map[string]any{}, "days", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, n, "absent optional argument takes the fallback")

		_, err = readInt(map[string]any{"days": "three"}, "days", 5)
		assert.Error(t, err)
	})

	t.Run("readStringSlice", func(t *testing.T) {
		got, err := readStringSlice(map[string]any{"queries": []any{"a", "b"}}, "queries")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)

		got, err = readStringSlice(map[string]any{"queries": []string{"a"}}, "queries")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)

		_, err = readStringSlice(map[string]any{"queries": []any{"a", 2}}, "queries")
		assert.Error(t, err)

		_, err = readStringSlice(map[string]any{}, "queries")
		assert.Error(t, err)
	})
}

func TestTravelRegistry_Declarations(t *testing.T) {
	r := NewTravelRegistry(nil, nil, nil, nil, testLogger())

	names := make([]string, 0, 5)
	for _, tool := range r.List() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"searchPlace", "placeDetails", "batchPlaceDetails", "geocode", "weatherSummary"}, names)

	decls := FunctionDeclarations()
	require.Len(t, decls, 5)
	for _, d := range decls {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
	}
}
