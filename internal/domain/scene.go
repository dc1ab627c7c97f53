package domain

import "time"

// Vector — точка сцены. Y — высота, движение агентов идет в плоскости XZ.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Zone — статичная привязка идентификатора зоны к якорной точке сцены.
// Зоны не создаются и не удаляются в рантайме.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Anchor Vector `json:"anchor"`
}

// PlacedAgent — агент вместе с производными позициями на момент тика.
// Rest — точка схождения (якорь зоны со смещением вверх); сглаживание
// траектории — ответственность рендера, не ядра.
type PlacedAgent struct {
	Agent
	Position Vector `json:"position"`
	Rest     Vector `json:"rest_position"`
}

// Interaction — неупорядоченная пара взаимодействующих агентов.
// Живет ровно один тик: полностью пересчитывается при каждой публикации,
// собственной идентичности между тиками не имеет.
type Interaction struct {
	AgentA string `json:"agent_a"`
	AgentB string `json:"agent_b"`
	PosA   Vector `json:"pos_a"`
	PosB   Vector `json:"pos_b"`
}

// Snapshot — единственный артефакт, который ядро отдает наружу.
// Иммутабелен: читатели видят либо предыдущий, либо следующий целиком.
type Snapshot struct {
	Seq          uint64        `json:"seq"`       // Номер тика
	GeneratedAt  time.Time     `json:"generated_at"`
	Agents       []PlacedAgent `json:"agents"`
	Interactions []Interaction `json:"interactions"`
}
