package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xela07ax/spaceai-agent-scene/internal/tools"
)

// ToolHandler — каталог инструментов консоли (установка/удаление).
type ToolHandler struct {
	registry *tools.Registry
}

func NewToolHandler(reg *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: reg}
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

func (h *ToolHandler) Install(w http.ResponseWriter, r *http.Request) {
	tool, err := h.registry.Install(chi.URLParam(r, "id"))
	if err != nil {
		toolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) Uninstall(w http.ResponseWriter, r *http.Request) {
	tool, err := h.registry.Uninstall(chi.URLParam(r, "id"))
	if err != nil {
		toolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func toolError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		http.Error(w, "tool not found", http.StatusNotFound)
	case errors.Is(err, tools.ErrAlreadyInstalled), errors.Is(err, tools.ErrNotInstalled):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
