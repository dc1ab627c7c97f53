package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

func testRoster() []domain.Agent {
	return []domain.Agent{
		{ID: "a1", Name: "Atlas", Type: domain.TypeAnalyst, Status: domain.StatusIdle, Energy: 80, ZoneID: "ops"},
		{ID: "a2", Name: "Nova", Type: domain.TypeManager, Status: domain.StatusActive, Energy: 60, ZoneID: "ops"},
	}
}

func TestStore_InitializeOnce(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Initialize(testRoster()))
	require.Equal(t, 2, s.Len())

	// Повторная инициализация в рамках сессии — ошибка программиста
	err := s.Initialize(testRoster())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, 2, s.Len())
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testRoster()))

	view := s.Current()
	view[0].Energy = -999
	view[0].ID = "mutated"

	fresh := s.Current()
	assert.Equal(t, "a1", fresh[0].ID)
	assert.Equal(t, 80, fresh[0].Energy)
}

func TestStore_ApplyTickReplacesAll(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Initialize(testRoster()))

	s.ApplyTick(func(a domain.Agent) domain.Agent {
		a.Energy -= 10
		a.Status = domain.StatusOptimizing
		return a
	})

	for _, a := range s.Current() {
		assert.Equal(t, domain.StatusOptimizing, a.Status)
	}
	assert.Equal(t, 70, s.Current()[0].Energy)
	assert.Equal(t, 50, s.Current()[1].Energy)
}

func TestStore_InitializeCopiesInput(t *testing.T) {
	s := NewStore()
	roster := testRoster()
	require.NoError(t, s.Initialize(roster))

	roster[1].ID = "hijacked"
	assert.Equal(t, "a2", s.Current()[1].ID)
}
