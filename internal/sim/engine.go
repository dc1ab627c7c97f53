package sim

/*
Файл engine.go реализует движок тиков — единственного писателя Agent Store.

Ключевые особенности архитектуры:
- Single Writer: все мутации популяции идут через ApplyTick движка;
  презентационные потребители только читают снапшоты.
- Atomic Publish: результат тика (агенты + позиции + взаимодействия)
  публикуется одной записью atomic.Pointer — читатель видит либо прошлый,
  либо новый снапшот целиком, "агенты новые, связи старые" невозможно.
- Failure Isolation: паника в апдейте одного агента гасится recover'ом,
  агент остается в прошлом состоянии, остальные обновляются штатно.
- Clean Shutdown: остановка по контексту между тиками, начатый тик
  дорабатывает до конца и не публикуется частично.
*/

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

const (
	// DefaultTickPeriod — референсный каденс симуляции.
	DefaultTickPeriod = 2 * time.Second

	rechargeThreshold = 20  // Ниже — принудительная подзарядка
	rechargeGain      = 5   // Прибавка за тик подзарядки (нетто -1+5 = +4)
	taskSwitchProb    = 0.3 // Шанс смены задачи за тик
	connDegradeProb   = 0.1 // Шанс деградации связи за тик (50/50 unstable/offline)
)

// Clock — инъецируемое время для детерминированных тестов фазы.
type Clock func() time.Time

// SnapshotProvider — контракт чтения последнего снапшота для потребителей
// (HTTP-хендлеры, websocket-хаб). Чтение никогда не блокирует тик.
type SnapshotProvider interface {
	Latest() *domain.Snapshot
}

type Options struct {
	Store  *Store
	Zones  *ZoneDirectory
	Rand   Source
	Clock  Clock
	Logger *zap.Logger

	Metrics *Metrics
	Period  time.Duration

	// OnPublish — необязательный хук после публикации снапшота
	// (fan-out в websocket). Обязан быть неблокирующим.
	OnPublish func(*domain.Snapshot)
}

type Engine struct {
	store  *Store
	zones  *ZoneDirectory
	rng    Source
	clock  Clock
	logger *zap.Logger

	metrics   *Metrics
	period    time.Duration
	onPublish func(*domain.Snapshot)

	startedAt time.Time
	seq       uint64
	snapshot  atomic.Pointer[domain.Snapshot]

	done chan struct{}
}

func NewEngine(opts Options) *Engine {
	if opts.Period <= 0 {
		opts.Period = DefaultTickPeriod
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = NewSource(uint64(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}

	e := &Engine{
		store:     opts.Store,
		zones:     opts.Zones,
		rng:       opts.Rand,
		clock:     opts.Clock,
		logger:    opts.Logger.Named("tick-engine"),
		metrics:   opts.Metrics,
		period:    opts.Period,
		onPublish: opts.OnPublish,
		done:      make(chan struct{}),
	}
	// Точка отсчета фазы вращения — создание движка (wall-clock)
	e.startedAt = e.clock()
	return e
}

// Run крутит цикл тиков до отмены контекста. Начатый тик всегда
// дорабатывает: выход проверяется только между тиками.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)

	// Первый кадр сразу, чтобы Latest() был валиден до первого интервала
	e.tick(e.clock())

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	e.logger.Info("tick engine started",
		zap.Duration("period", e.period),
		zap.Int("agents", e.store.Len()))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("tick engine stopped",
				zap.Uint64("last_seq", e.seq))
			return
		case <-ticker.C:
			e.tick(e.clock())
		}
	}
}

// Stopped закрывается после полной остановки цикла (для graceful shutdown).
func (e *Engine) Stopped() <-chan struct{} {
	return e.done
}

// Latest реализует SnapshotProvider. До первого тика возвращает nil.
func (e *Engine) Latest() *domain.Snapshot {
	return e.snapshot.Load()
}

// tick — единица работы: (a) апдейт всех агентов, (b) размещение,
// (c) детекция взаимодействий, (d) атомарная публикация. Позиции в
// снапшоте — ровно те, по которым считались взаимодействия.
func (e *Engine) tick(now time.Time) {
	start := time.Now()

	// (a) Атомарная замена всей популяции
	e.store.ApplyTick(e.safeUpdate)

	// (b) Позиции от текущей фазы wall-clock
	agents := e.store.Current()
	phase := now.Sub(e.startedAt).Seconds()

	placed := make([]domain.PlacedAgent, len(agents))
	for i, a := range agents {
		pos, rest := Place(i, len(agents), e.zones.AnchorOf(a.ZoneID), phase)
		placed[i] = domain.PlacedAgent{Agent: a, Position: pos, Rest: rest}
	}

	// (c) Активный набор связей этого тика
	interactions := DetectInteractions(placed)

	// (d) Публикация
	e.seq++
	snap := &domain.Snapshot{
		Seq:          e.seq,
		GeneratedAt:  now,
		Agents:       placed,
		Interactions: interactions,
	}
	e.snapshot.Store(snap)

	e.observe(snap, time.Since(start))

	if e.onPublish != nil {
		e.onPublish(snap)
	}
}

// safeUpdate изолирует сбой апдейта одного агента: при панике агент
// остается в прошлом состоянии, цикл не останавливается.
func (e *Engine) safeUpdate(a domain.Agent) (out domain.Agent) {
	out = a
	defer func() {
		if r := recover(); r != nil {
			e.metrics.UpdateFailures.Inc()
			e.logger.Warn("agent update failed, keeping previous state",
				zap.String("agent_id", a.ID),
				zap.Any("panic", r))
		}
	}()
	return e.updateAgent(a)
}

// updateAgent — машина состояний одного агента, без связей с соседями
// (связанность живет только в детекторе взаимодействий).
func (e *Engine) updateAgent(a domain.Agent) domain.Agent {
	// 1. Распад энергии (floor пока не применяем)
	a.Energy--

	if a.Energy < rechargeThreshold {
		// 2. Порог пробит в этом же тике → принудительная подзарядка.
		// Нетто за тик: -1+5 = +4 (см. DESIGN.md про семантику recharge)
		a.CurrentTask = TaskRecharging
		a.Status = domain.StatusIdle
		a.Energy += rechargeGain
	} else if e.rng.Float64() < taskSwitchProb {
		// 3. Вероятностная смена задачи из словаря своего типа
		tasks := tasksFor(a.Type)
		a.CurrentTask = tasks[e.rng.IntN(len(tasks))]
		a.Status = domain.StatusActive
	}
	// 4. Иначе задача и статус остаются с прошлого тика

	// 5. Инварианты диапазонов
	a.Energy = domain.ClampPercent(a.Energy)
	a.Load = domain.ClampPercent(a.Load)
	if a.Cooldown > 0 {
		a.Cooldown--
	}

	// 6. Независимая пересэмплировка качества связи (без гистерезиса)
	if e.rng.Float64() < connDegradeProb {
		if e.rng.Float64() < 0.5 {
			a.Connection = domain.ConnUnstable
		} else {
			a.Connection = domain.ConnOffline
		}
	} else {
		a.Connection = domain.ConnOptimal
	}

	return a
}

// observe обновляет метрики по свежеопубликованному снапшоту.
func (e *Engine) observe(snap *domain.Snapshot, took time.Duration) {
	e.metrics.TickDuration.Observe(took.Seconds())
	e.metrics.TicksTotal.Inc()
	e.metrics.ActiveInteractions.Set(float64(len(snap.Interactions)))

	byStatus := make(map[domain.AgentStatus]int, 4)
	for _, a := range snap.Agents {
		byStatus[a.Status]++
	}
	for _, st := range []domain.AgentStatus{
		domain.StatusActive, domain.StatusIdle, domain.StatusLearning, domain.StatusOptimizing,
	} {
		e.metrics.AgentsByStatus.WithLabelValues(string(st)).Set(float64(byStatus[st]))
	}
}
