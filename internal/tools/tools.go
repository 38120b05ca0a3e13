// Package tools exposes the fetchers and the batch orchestrator as named,
// independently invocable operations for an LLM tool-calling runtime.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Tool wraps an MCP tool declaration with its execution logic.
type Tool struct {
	mcp.Tool
	Execute func(ctx context.Context, args map[string]any) (any, error)
}

// ResultStatus indicates the outcome of a tool invocation.
type ResultStatus string

const (
	StatusSuccess  ResultStatus = "success"
	StatusNotFound ResultStatus = "not_found"
	StatusError    ResultStatus = "error"
)

// Result is the structured outcome returned across the tool boundary.
// Invocations never surface raw errors or panics to the runtime.
type Result struct {
	Status ResultStatus `json:"status"`
	Data   any          `json:"data,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Registry holds the tool set in declaration order.
type Registry struct {
	logger *slog.Logger
	tools  []*Tool
	byName map[string]*Tool
}

func NewRegistry(logger *slog.Logger, tools ...*Tool) *Registry {
	r := &Registry{
		logger: logger,
		tools:  tools,
		byName: make(map[string]*Tool, len(tools)),
	}
	for _, t := range tools {
		r.byName[t.Name] = t
	}
	return r
}

// List returns the MCP declarations in registration order.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Tool)
	}
	return out
}

// Invoke runs a named tool and converts every outcome, including unknown
// tools and panics, into a structured Result.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (res *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "Tool invocation panicked",
				slog.String("tool", name), slog.Any("panic", rec))
			res = &Result{Status: StatusError, Error: fmt.Sprintf("internal error: %v", rec)}
		}
	}()

	t, ok := r.byName[name]
	if !ok {
		return &Result{Status: StatusError, Error: fmt.Sprintf("unknown tool %q", name)}
	}

	data, err := t.Execute(ctx, args)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return &Result{Status: StatusNotFound, Error: "not found"}
		}
		r.logger.WarnContext(ctx, "Tool invocation failed",
			slog.String("tool", name), slog.Any("error", err))
		return &Result{Status: StatusError, Error: err.Error()}
	}
	return &Result{Status: StatusSuccess, Data: data}
}

// readString extracts a string argument; required missing values error.
func readString(args map[string]any, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required argument %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

// readFloat tolerates JSON numbers decoded as float64 or int.
func readFloat(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
}

func readInt(args map[string]any, key string, fallback int) (int, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	f, err := readFloat(args, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// readStringSlice extracts a []string argument from a decoded JSON array.
func readStringSlice(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", key)
	}
	raw, ok := v.([]any)
	if !ok {
		if direct, ok := v.([]string); ok {
			return direct, nil
		}
		return nil, fmt.Errorf("argument %q must be an array of strings", key)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q must contain only strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}
