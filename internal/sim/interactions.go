package sim

import (
	"math"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

// ProximityThreshold — максимальная дистанция, на которой пара считается
// взаимодействующей.
const ProximityThreshold = 15.0

// Compatible — симметричный предикат совместимости типов.
// Взаимодействуют только пары analyst↔manager и creative↔creative;
// неизвестный тип ни с кем не совместим (деградация без ошибки).
func Compatible(a, b domain.AgentType) bool {
	if a == domain.TypeAnalyst && b == domain.TypeManager {
		return true
	}
	if a == domain.TypeManager && b == domain.TypeAnalyst {
		return true
	}
	return a == domain.TypeCreative && b == domain.TypeCreative
}

// DetectInteractions обходит все неупорядоченные пары строго по i < j:
// дублей и зеркальных пар не бывает. O(n²) — осознанный выбор для популяций
// в десятки агентов; при серьезном росте популяции сюда встает
// пространственное партиционирование, но это расширение, а не тихая замена
// семантики.
func DetectInteractions(agents []domain.PlacedAgent) []domain.Interaction {
	var out []domain.Interaction
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			if !Compatible(a.Type, b.Type) {
				continue
			}
			if Distance(a.Position, b.Position) >= ProximityThreshold {
				continue
			}
			out = append(out, domain.Interaction{
				AgentA: a.ID,
				AgentB: b.ID,
				PosA:   a.Position,
				PosB:   b.Position,
			})
		}
	}
	return out
}

// Distance — евклидово расстояние между точками сцены.
func Distance(a, b domain.Vector) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
