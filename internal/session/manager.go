package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/ai"
	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/roster"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
)

// ErrSessionNotFound — обращение к сессии, которой нет (или уже остановлена).
var ErrSessionNotFound = errors.New("session: not found")

// Session — одна живая симуляция: собственный Store, движок тиков и
// AI-сервисы, замкнутые на снапшоты именно этого движка. Кэш саммари
// ключуется ID сессии, поэтому сессии не видят чужие саммари.
type Session struct {
	ID        string
	CreatedAt time.Time

	Engine  *sim.Engine
	Summary *ai.SummaryService
	Chat    *ai.ChatService

	cancel context.CancelFunc
}

// Deps — внешние зависимости менеджера, собираются один раз в main.
type Deps struct {
	Roster    roster.Provider
	Zones     *sim.ZoneDirectory
	Completer ai.Completer
	Cache     ai.SummaryCache
	Metrics   *sim.Metrics
	Logger    *zap.Logger

	TickPeriod time.Duration
	RandomSeed uint64

	// OnPublish получает каждый опубликованный снапшот (fan-out в websocket).
	OnPublish func(sessionID string, snap *domain.Snapshot)
}

// Manager создает и останавливает сессии симуляции. Каждая сессия
// крутит свой движок в отдельной горутине; остановка дожидается полного
// выхода цикла, чтобы не публиковать снапшоты после Stop.
type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
	seq      uint64 // Разводит сиды сессий при фиксированном random_seed
}

func NewManager(deps Deps) *Manager {
	deps.Logger = deps.Logger.Named("session-manager")
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Create загружает ростер, поднимает движок и запускает цикл тиков.
// Контекст ограничивает только загрузку ростера: жизнь сессии управляется
// через Stop, а не через ctx вызывающего.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	agents, err := m.deps.Roster.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	store := sim.NewStore()
	if err := store.Initialize(agents); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	m.mu.Lock()
	m.seq++
	seed := m.deps.RandomSeed
	if seed != 0 {
		// Детерминированный запуск: сессии получают разные, но
		// воспроизводимые потоки случайности
		seed += m.seq
	}
	m.mu.Unlock()

	var rng sim.Source
	if seed != 0 {
		rng = sim.NewSource(seed)
	}

	var onPublish func(*domain.Snapshot)
	if m.deps.OnPublish != nil {
		onPublish = func(snap *domain.Snapshot) { m.deps.OnPublish(id, snap) }
	}

	engine := sim.NewEngine(sim.Options{
		Store:     store,
		Zones:     m.deps.Zones,
		Rand:      rng,
		Logger:    m.deps.Logger.With(zap.String("session_id", id)),
		Metrics:   m.deps.Metrics,
		Period:    m.deps.TickPeriod,
		OnPublish: onPublish,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Engine:    engine,
		Summary:   ai.NewSummaryService(m.deps.Completer, m.deps.Cache, m.deps.Zones, engine, m.deps.Logger),
		Chat:      ai.NewChatService(m.deps.Completer, engine, m.deps.Logger),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	go engine.Run(runCtx)

	m.deps.Logger.Info("session created",
		zap.String("session_id", id),
		zap.Int("agents", len(agents)))
	return sess, nil
}

// Get возвращает живую сессию по ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List возвращает живые сессии в порядке создания.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Stop останавливает движок сессии и дожидается выхода цикла тиков.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.cancel()
	<-sess.Engine.Stopped()

	m.deps.Logger.Info("session stopped", zap.String("session_id", id))
	return nil
}

// StopAll — graceful shutdown всех сессий.
func (m *Manager) StopAll() {
	for _, s := range m.List() {
		_ = m.Stop(s.ID)
	}
}
