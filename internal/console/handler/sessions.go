package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/session"
)

// SessionHandler управляет жизненным циклом сессий симуляции.
type SessionHandler struct {
	manager *session.Manager
	logger  *zap.Logger
}

func NewSessionHandler(m *session.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{manager: m, logger: logger.Named("session-api")}
}

type sessionView struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Agents    int       `json:"agents"`
}

func viewOf(s *session.Session) sessionView {
	v := sessionView{ID: s.ID, CreatedAt: s.CreatedAt}
	if snap := s.Engine.Latest(); snap != nil {
		v.Agents = len(snap.Agents)
	}
	return v
}

// Create поднимает новую сессию с собственным движком тиков.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("session create failed", zap.Error(err))
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, viewOf(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete останавливает сессию и дожидается выхода ее движка.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Stop(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
