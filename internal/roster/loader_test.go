package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
)

func TestConfigProvider_LoadRoster(t *testing.T) {
	p := NewConfigProvider(infra.RosterConfig{
		Agents: []infra.AgentConfig{
			{ID: "a1", Name: "Atlas", Role: "Data analyst", Type: "analyst", Zone: "ops", Energy: 85, Load: 40},
			{Name: "Nova", Type: "creative", Zone: "studio"},
		},
	}, zap.NewNop())

	agents, err := p.LoadRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)

	assert.Equal(t, "a1", agents[0].ID)
	assert.Equal(t, 85, agents[0].Energy)

	// Пропущенные поля добиты дефолтами
	assert.NotEmpty(t, agents[1].ID)
	assert.Equal(t, 100, agents[1].Energy)
	assert.Equal(t, domain.StatusIdle, agents[1].Status)
	assert.Equal(t, domain.ConnOptimal, agents[1].Connection)
	assert.Equal(t, "Thinking", agents[1].CurrentTask)
}

func TestConfigProvider_EmptyRoster(t *testing.T) {
	p := NewConfigProvider(infra.RosterConfig{}, zap.NewNop())

	_, err := p.LoadRoster(context.Background())
	require.ErrorIs(t, err, ErrEmptyRoster)
}

func TestNormalize_ClampsRanges(t *testing.T) {
	a := Normalize(domain.Agent{ID: "x", Energy: 150, Load: -20, Cooldown: -3})

	assert.Equal(t, 100, a.Energy)
	assert.Equal(t, 0, a.Load)
	assert.Equal(t, 0, a.Cooldown)
}

func TestZonesFromConfig(t *testing.T) {
	zones := ZonesFromConfig(infra.SceneConfig{
		Zones: []infra.ZoneConfig{
			{ID: "ops", Name: "Operations", X: 1, Y: 2, Z: 3},
		},
	})

	require.Len(t, zones, 1)
	assert.Equal(t, domain.Vector{X: 1, Y: 2, Z: 3}, zones[0].Anchor)
}
