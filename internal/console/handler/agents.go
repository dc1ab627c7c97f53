package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/ai"
	"github.com/xela07ax/spaceai-agent-scene/internal/session"
)

// AgentHandler — чтение агентов сцены и чат с ними. Записи сюда нет:
// состоянием агентов владеет движок тиков.
type AgentHandler struct {
	manager   *session.Manager
	defaultID string
	logger    *zap.Logger
}

func NewAgentHandler(m *session.Manager, defaultID string, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		manager:   m,
		defaultID: defaultID,
		logger:    logger.Named("agent-api"),
	}
}

// List — все агенты из последнего снапшота (с позициями).
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	snap := sess.Engine.Latest()
	if snap == nil {
		http.Error(w, "scene not ready", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, snap.Agents)
}

// Get — один агент по ID.
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	snap := sess.Engine.Latest()
	if snap == nil {
		http.Error(w, "scene not ready", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	for _, a := range snap.Agents {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	http.Error(w, "agent not found", http.StatusNotFound)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	AgentID string `json:"agent_id"`
	Reply   string `json:"reply"`
}

// Chat — реплика агента от его лица через AI-провайдер.
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	reply, err := sess.Chat.Reply(r.Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, ai.ErrAgentNotFound) {
			http.Error(w, "agent not found", http.StatusNotFound)
			return
		}
		h.logger.Error("chat failed", zap.String("agent_id", id), zap.Error(err))
		// AI-провайдер лежит — это не ошибка сцены
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{AgentID: id, Reply: reply})
}
