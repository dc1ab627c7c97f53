package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/session"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
)

// ZoneHandler — каталог зон и AI-саммари по зоне.
type ZoneHandler struct {
	zones     *sim.ZoneDirectory
	manager   *session.Manager
	defaultID string
	logger    *zap.Logger
}

func NewZoneHandler(zones *sim.ZoneDirectory, m *session.Manager, defaultID string, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{
		zones:     zones,
		manager:   m,
		defaultID: defaultID,
		logger:    logger.Named("zone-api"),
	}
}

// List — все зоны сцены с якорными точками.
func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.zones.Zones())
}

type summaryResponse struct {
	ZoneID  string `json:"zone_id"`
	Summary string `json:"summary"`
}

// Summary — нарративное саммари зоны. Первый запрос сессии идет во
// внешний AI-сервис, дальше отдается кэш.
func (h *ZoneHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.zones.Contains(id) {
		http.Error(w, "zone not found", http.StatusNotFound)
		return
	}

	sess, err := resolveSession(h.manager, h.defaultID, r)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	text, err := sess.Summary.ZoneSummary(r.Context(), sess.ID, id)
	if err != nil {
		h.logger.Error("zone summary failed", zap.String("zone_id", id), zap.Error(err))
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{ZoneID: id, Summary: text})
}
