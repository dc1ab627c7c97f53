package sim

import (
	"errors"
	"sync"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

// ErrAlreadyInitialized — повторный Initialize в рамках одной сессии.
// Это ошибка программиста у вызывающего, ядро ее не "восстанавливает".
var ErrAlreadyInitialized = errors.New("store: agent roster already initialized")

// Store — единственный владелец популяции агентов в рамках сессии.
// Писатель ровно один (движок тиков), все остальные компоненты читают.
// Вместо точечных мутаций полей — вывод нового списка из старого и
// одна атомарная подмена: читатель никогда не видит полуобновленный состав.
type Store struct {
	mu          sync.RWMutex
	agents      []domain.Agent
	initialized bool
}

func NewStore() *Store {
	return &Store{}
}

// Initialize загружает стартовый состав ровно один раз за сессию.
func (s *Store) Initialize(agents []domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	// Защитная копия: вызывающий может дальше делать со своим слайсом что угодно
	s.agents = make([]domain.Agent, len(agents))
	copy(s.agents, agents)
	s.initialized = true
	return nil
}

// Current возвращает последний зафиксированный состав. Не блокируется о тик:
// отдаем копию под RLock, мутаций по ссылке наружу не утекает.
func (s *Store) Current() []domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

// ApplyTick атомарно заменяет каждого агента результатом update.
// Новый список собирается вне критической секции записи не получится —
// update обязан быть чистым и быстрым, поэтому держим Lock на весь проход:
// частичное обновление снаружи не наблюдаемо по определению.
func (s *Store) ApplyTick(update func(domain.Agent) domain.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Agent, len(s.agents))
	for i, a := range s.agents {
		next[i] = update(a)
	}
	s.agents = next
}

// Len — текущий размер популяции.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents)
}
