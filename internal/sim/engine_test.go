package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

// scriptedSource отдает заранее заданную последовательность значений,
// чтобы проверять точные исходы вероятностных переходов.
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

// panickySource имитирует отказ источника случайности внутри апдейта.
type panickySource struct{}

func (panickySource) Float64() float64 { panic("rng backend gone") }
func (panickySource) IntN(int) int     { panic("rng backend gone") }

func testZones() *ZoneDirectory {
	return NewZoneDirectory([]domain.Zone{
		{ID: "ops", Name: "Operations", Anchor: domain.Vector{X: 0, Z: 0}},
		{ID: "lab", Name: "Research Lab", Anchor: domain.Vector{X: 6, Z: 0}},
	})
}

func newTestEngine(t *testing.T, agents []domain.Agent, src Source) *Engine {
	t.Helper()

	store := NewStore()
	require.NoError(t, store.Initialize(agents))

	return NewEngine(Options{
		Store:  store,
		Zones:  testZones(),
		Rand:   src,
		Period: 5 * time.Millisecond,
	})
}

func agentOf(t *testing.T, e *Engine, id string) domain.Agent {
	t.Helper()
	for _, a := range e.store.Current() {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("agent %s not found", id)
	return domain.Agent{}
}

// Траектория из спецификации поведения: 21 → 20 (порог еще не пробит) →
// следующий тик 19 < 20 → подзарядка → 24.
func TestEngine_RechargeTrajectory(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.9}} // Ни смены задач, ни деградации связи
	e := newTestEngine(t, []domain.Agent{
		{ID: "a1", Type: domain.TypeAnalyst, Status: domain.StatusActive, CurrentTask: "Analyzing metrics", Energy: 21, ZoneID: "ops"},
	}, src)

	e.tick(time.Now())
	a := agentOf(t, e, "a1")
	assert.Equal(t, 20, a.Energy)
	assert.Equal(t, domain.StatusActive, a.Status, "порог не пробит — статус прежний")
	assert.Equal(t, "Analyzing metrics", a.CurrentTask)

	e.tick(time.Now())
	a = agentOf(t, e, "a1")
	assert.Equal(t, 24, a.Energy, "19 после распада, затем +5")
	assert.Equal(t, domain.StatusIdle, a.Status)
	assert.Equal(t, TaskRecharging, a.CurrentTask)
}

func TestEngine_TaskSwitchDraw(t *testing.T) {
	src := &scriptedSource{
		floats: []float64{0.1, 0.9}, // Гейт задачи проходит, связь остается optimal
		ints:   []int{1},
	}
	e := newTestEngine(t, []domain.Agent{
		{ID: "a1", Type: domain.TypeAnalyst, Status: domain.StatusIdle, CurrentTask: "old", Energy: 80, ZoneID: "ops"},
	}, src)

	e.tick(time.Now())

	a := agentOf(t, e, "a1")
	assert.Equal(t, taskVocabulary[domain.TypeAnalyst][1], a.CurrentTask)
	assert.Equal(t, domain.StatusActive, a.Status)
	assert.Equal(t, 79, a.Energy)
}

func TestEngine_TaskKeptWhenDrawFails(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.9}}
	e := newTestEngine(t, []domain.Agent{
		{ID: "a1", Type: domain.TypeManager, Status: domain.StatusLearning, CurrentTask: "kept", Energy: 50, ZoneID: "ops"},
	}, src)

	e.tick(time.Now())

	a := agentOf(t, e, "a1")
	assert.Equal(t, "kept", a.CurrentTask)
	assert.Equal(t, domain.StatusLearning, a.Status)
}

func TestEngine_UnknownTypeFallsBackToThinking(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.1, 0.9}, ints: []int{3}}
	e := newTestEngine(t, []domain.Agent{
		{ID: "x1", Type: domain.AgentType("quantum"), Energy: 70, ZoneID: "nowhere"},
	}, src)

	require.NotPanics(t, func() { e.tick(time.Now()) })

	a := agentOf(t, e, "x1")
	assert.Equal(t, "Thinking", a.CurrentTask)
}

func TestEngine_ConnectionResample(t *testing.T) {
	cases := []struct {
		name   string
		floats []float64
		want   domain.ConnectionQuality
	}{
		{"optimal", []float64{0.9, 0.5}, domain.ConnOptimal},
		{"unstable", []float64{0.9, 0.05, 0.3}, domain.ConnUnstable},
		{"offline", []float64{0.9, 0.05, 0.7}, domain.ConnOffline},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &scriptedSource{floats: tc.floats}
			e := newTestEngine(t, []domain.Agent{
				{ID: "a1", Type: domain.TypeSecurity, Energy: 90, Connection: domain.ConnOffline, ZoneID: "ops"},
			}, src)

			e.tick(time.Now())
			assert.Equal(t, tc.want, agentOf(t, e, "a1").Connection)
		})
	}
}

// Инвариант диапазонов держится на любом числе тиков и при битых входных данных.
func TestEngine_EnergyLoadBounds(t *testing.T) {
	e := newTestEngine(t, []domain.Agent{
		{ID: "hot", Type: domain.TypeAnalyst, Energy: 105, Load: 140, ZoneID: "ops"},
		{ID: "cold", Type: domain.TypeCreative, Energy: 0, Load: -5, ZoneID: "lab"},
		{ID: "mid", Type: domain.TypeManager, Energy: 47, Load: 50, ZoneID: "ops"},
	}, NewSource(1))

	for i := 0; i < 200; i++ {
		e.tick(time.Now())
		for _, a := range e.store.Current() {
			require.GreaterOrEqual(t, a.Energy, 0, "agent %s", a.ID)
			require.LessOrEqual(t, a.Energy, 100, "agent %s", a.ID)
			require.GreaterOrEqual(t, a.Load, 0, "agent %s", a.ID)
			require.LessOrEqual(t, a.Load, 100, "agent %s", a.ID)
			require.GreaterOrEqual(t, a.Cooldown, 0, "agent %s", a.ID)
		}
	}
}

func TestEngine_CooldownDecrementsToFloor(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.9}}
	e := newTestEngine(t, []domain.Agent{
		{ID: "a1", Type: domain.TypeAnalyst, Energy: 90, Cooldown: 2, ZoneID: "ops"},
	}, src)

	for i := 0; i < 4; i++ {
		e.tick(time.Now())
	}
	assert.Equal(t, 0, agentOf(t, e, "a1").Cooldown)
}

// Атомарность снапшота: взаимодействия пересчитываются из позиций самого
// снапшота и обязаны совпасть с опубликованным набором бит в бит.
func TestEngine_SnapshotRoundTrip(t *testing.T) {
	e := newTestEngine(t, []domain.Agent{
		{ID: "an", Type: domain.TypeAnalyst, Energy: 80, ZoneID: "ops"},
		{ID: "mg", Type: domain.TypeManager, Energy: 75, ZoneID: "ops"},
		{ID: "cr1", Type: domain.TypeCreative, Energy: 60, ZoneID: "lab"},
		{ID: "cr2", Type: domain.TypeCreative, Energy: 65, ZoneID: "lab"},
		{ID: "sec", Type: domain.TypeSecurity, Energy: 90, ZoneID: "ops"},
	}, NewSource(42))

	e.tick(time.Now())
	snap := e.Latest()
	require.NotNil(t, snap)
	require.Len(t, snap.Agents, 5)

	recomputed := DetectInteractions(snap.Agents)
	assert.Equal(t, snap.Interactions, recomputed)
}

func TestEngine_SeqMonotonic(t *testing.T) {
	e := newTestEngine(t, testRoster(), NewSource(7))

	for i := 1; i <= 3; i++ {
		e.tick(time.Now())
		require.EqualValues(t, i, e.Latest().Seq)
	}
}

// Сбой апдейта одного агента не валит тик: агент остается в прошлом
// состоянии, снапшот все равно публикуется.
func TestEngine_UpdateFailureIsolated(t *testing.T) {
	e := newTestEngine(t, []domain.Agent{
		{ID: "a1", Type: domain.TypeAnalyst, Status: domain.StatusActive, CurrentTask: "before", Energy: 80, ZoneID: "ops"},
	}, panickySource{})

	require.NotPanics(t, func() { e.tick(time.Now()) })

	a := agentOf(t, e, "a1")
	assert.Equal(t, 80, a.Energy, "состояние до сбоя сохранено")
	assert.Equal(t, "before", a.CurrentTask)
	require.NotNil(t, e.Latest())
	assert.EqualValues(t, 1, e.Latest().Seq)
}

func TestEngine_RunStopsCleanly(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Initialize(testRoster()))

	published := make(chan *domain.Snapshot, 64)
	e := NewEngine(Options{
		Store:  store,
		Zones:  testZones(),
		Rand:   NewSource(3),
		Period: 2 * time.Millisecond,
		OnPublish: func(s *domain.Snapshot) {
			select {
			case published <- s:
			default:
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	// Ждем несколько опубликованных тиков
	for i := 0; i < 3; i++ {
		select {
		case <-published:
		case <-time.After(time.Second):
			t.Fatal("no snapshot published in time")
		}
	}

	cancel()
	select {
	case <-e.Stopped():
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}

	last := e.Latest()
	require.NotNil(t, last)
	assert.GreaterOrEqual(t, last.Seq, uint64(3))
}

// Фаза считается от wall-clock, позиции детерминированы при подмененных часах.
func TestEngine_PhaseFromClock(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return t0 }

	store := NewStore()
	require.NoError(t, store.Initialize([]domain.Agent{
		{ID: "a1", Type: domain.TypeAnalyst, Energy: 80, ZoneID: "ops"},
		{ID: "a2", Type: domain.TypeManager, Energy: 80, ZoneID: "ops"},
	}))
	e := NewEngine(Options{
		Store: store,
		Zones: testZones(),
		Rand:  &scriptedSource{floats: []float64{0.9}},
		Clock: clock,
	})

	e.tick(t0.Add(4 * time.Second)) // фаза = 4с от создания движка

	snap := e.Latest()
	anchor := testZones().AnchorOf("ops")
	for i, a := range snap.Agents {
		wantPos, wantRest := Place(i, len(snap.Agents), anchor, 4.0)
		assert.Equal(t, wantPos, a.Position)
		assert.Equal(t, wantRest, a.Rest)
	}
}
