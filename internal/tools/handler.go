package tools

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	api "github.com/FACorreiaa/go-trip-planner/internal/api"
)

// HandlerImpl serves the tool surface over HTTP for runtimes that invoke
// tools via REST rather than an in-process Gemini session.
type HandlerImpl struct {
	registry *Registry
	logger   *slog.Logger
}

// NewHandlerImpl creates a new tool handler instance.
func NewHandlerImpl(registry *Registry, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{registry: registry, logger: logger}
}

// ListTools returns the declared tool set.
// GET /api/v1/tools
func (h *HandlerImpl) ListTools(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"tools": h.registry.List(),
	})
}

// InvokeTool runs one named tool with JSON arguments. Every outcome,
// including tool-level failure, is a 200 with a structured result; only a
// malformed request body is a client error.
// POST /api/v1/tools/{name}
func (h *HandlerImpl) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	if err := api.DecodeJSONBody(w, r, &args); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result := h.registry.Invoke(r.Context(), name, args)
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
