package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xela07ax/spaceai-agent-scene/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// resolveSession выбирает сессию запроса: ?session_id=... или сессия
// по умолчанию, созданная при старте процесса.
func resolveSession(m *session.Manager, defaultID string, r *http.Request) (*session.Session, error) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		id = defaultID
	}
	return m.Get(id)
}
