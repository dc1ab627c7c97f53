package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

func TestPlace_Deterministic(t *testing.T) {
	anchor := domain.Vector{X: 10, Y: 2, Z: -4}

	p1, r1 := Place(3, 7, anchor, 12.5)
	p2, r2 := Place(3, 7, anchor, 12.5)

	// Чистая функция: одинаковый вход — бит в бит одинаковый выход
	assert.Equal(t, p1, p2)
	assert.Equal(t, r1, r2)
}

func TestPlace_OnOrbitCircle(t *testing.T) {
	anchor := domain.Vector{X: 5, Y: 1, Z: 5}

	pos, _ := Place(0, 4, anchor, 3.2)

	dx := pos.X - anchor.X
	dz := pos.Z - anchor.Z
	assert.InDelta(t, OrbitRadius, math.Sqrt(dx*dx+dz*dz), 1e-9)
	assert.Equal(t, anchor.Y, pos.Y)
}

func TestPlace_EvenSpread(t *testing.T) {
	anchor := domain.Vector{}

	// Два агента — противоположные точки круга
	p0, _ := Place(0, 2, anchor, 0)
	p1, _ := Place(1, 2, anchor, 0)

	assert.InDelta(t, 2*OrbitRadius, Distance(p0, p1), 1e-9)
}

func TestPlace_RestAboveAnchor(t *testing.T) {
	anchor := domain.Vector{X: -3, Y: 0.5, Z: 8}

	_, rest := Place(2, 5, anchor, 99)

	assert.Equal(t, anchor.X, rest.X)
	assert.Equal(t, anchor.Z, rest.Z)
	assert.InDelta(t, anchor.Y+RestHeight, rest.Y, 1e-9)
}

func TestPlace_ZeroPopulationGuard(t *testing.T) {
	assert.NotPanics(t, func() {
		Place(0, 0, domain.Vector{}, 1.0)
	})
}

func TestPlace_PhaseRotates(t *testing.T) {
	anchor := domain.Vector{}

	p0, _ := Place(0, 3, anchor, 0)
	p1, _ := Place(0, 3, anchor, 1)

	// Фаза двигает агента по кругу
	assert.Greater(t, Distance(p0, p1), 0.0)
}
