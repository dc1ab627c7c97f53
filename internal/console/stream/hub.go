package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

const (
	writeWait = 5 * time.Second
	// Буфер на клиента: пара кадров запаса, дальше считаем клиента медленным
	clientBuffer = 4
)

// Hub раздает снапшоты сцены по websocket. Один хаб на процесс,
// подписки ключуются ID сессии. Broadcast вызывается из OnPublish
// движка и обязан не блокироваться: медленному клиенту кадр
// просто не кладем — следующий тик принесет актуальное состояние,
// промежуточный кадр для дашборда ценности не имеет.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

type client struct {
	send chan *domain.Snapshot
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger.Named("scene-stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Консоль и API живут на одном origin; для dev-стенда не ограничиваем
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subs: make(map[string]map[*client]struct{}),
	}
}

// Broadcast кладет снапшот всем подписчикам сессии без блокировки.
func (h *Hub) Broadcast(sessionID string, snap *domain.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subs[sessionID] {
		select {
		case c.send <- snap:
		default:
			// Клиент не вычитывает — кадр пропускаем
		}
	}
}

// ServeWS апгрейдит соединение и стримит снапшоты до закрытия клиентом.
// first — кадр для немедленной отправки, чтобы клиент не ждал ближайший тик.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, first *domain.Snapshot) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{send: make(chan *domain.Snapshot, clientBuffer)}
	if first != nil {
		c.send <- first
	}

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*client]struct{})
	}
	h.subs[sessionID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("stream client connected", zap.String("session_id", sessionID))

	// Писатель: кадры из канала → в сокет
	go func() {
		defer conn.Close()
		for snap := range c.send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}()

	// Читатель держит соединение и ловит закрытие со стороны клиента
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.subs[sessionID], c)
	if len(h.subs[sessionID]) == 0 {
		delete(h.subs, sessionID)
	}
	h.mu.Unlock()
	close(c.send)

	h.logger.Debug("stream client disconnected", zap.String("session_id", sessionID))
}

// Subscribers — число живых подписчиков сессии (для тестов и health).
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
