package sim

import (
	"math"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

const (
	// OrbitRadius — радиус круга, по которому агенты распределяются вокруг якоря зоны.
	OrbitRadius = 3.0

	// AngularSpeed — скорость вращения фазы, рад/с. Фаза берется от wall-clock,
	// а не от счетчика тиков: визуальное движение не зависит от каденса тиков.
	AngularSpeed = 0.5

	// RestHeight — подъем "точки покоя" над якорем зоны.
	RestHeight = 1.5
)

// Place — чистая функция размещения: (индекс, размер популяции, якорь, фаза) →
// активная позиция на круге + точка покоя. Агенты раскладываются равномерно
// по кругу и непрерывно вращаются. Никакого сглаживания здесь нет — это
// ответственность рендера.
func Place(index, total int, anchor domain.Vector, phase float64) (pos, rest domain.Vector) {
	if total < 1 {
		total = 1
	}

	angle := phase*AngularSpeed + float64(index)*(2*math.Pi/float64(total))

	pos = domain.Vector{
		X: anchor.X + OrbitRadius*math.Cos(angle),
		Y: anchor.Y,
		Z: anchor.Z + OrbitRadius*math.Sin(angle),
	}
	rest = domain.Vector{
		X: anchor.X,
		Y: anchor.Y + RestHeight,
		Z: anchor.Z,
	}
	return pos, rest
}
