package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/console/stream"
	"github.com/xela07ax/spaceai-agent-scene/internal/session"
)

// SceneHandler отдает состояние сцены: разовый снапшот и websocket-стрим.
type SceneHandler struct {
	manager   *session.Manager
	defaultID string
	hub       *stream.Hub
	logger    *zap.Logger
}

func NewSceneHandler(m *session.Manager, defaultID string, hub *stream.Hub, logger *zap.Logger) *SceneHandler {
	return &SceneHandler{
		manager:   m,
		defaultID: defaultID,
		hub:       hub,
		logger:    logger.Named("scene-api"),
	}
}

// Snapshot — последний опубликованный кадр симуляции целиком:
// агенты с позициями плюс активные взаимодействия одного тика.
func (h *SceneHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	snap := sess.Engine.Latest()
	if snap == nil {
		// Движок еще не сделал первый тик
		http.Error(w, "scene not ready", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Stream апгрейдит соединение в websocket и шлет каждый новый снапшот.
func (h *SceneHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	h.hub.ServeWS(w, r, sess.ID, sess.Engine.Latest())
}
