package domain

// AgentType определяет специализацию агента.
// От типа зависят словарь задач, совместимость и цветовая семантика на фронте.
type AgentType string

const (
	TypeSecurity AgentType = "security" // Охранный контур (ни с кем не взаимодействует)
	TypeAnalyst  AgentType = "analyst"  // Аналитика (пара к manager)
	TypeCreative AgentType = "creative" // Генерация контента (пара к creative)
	TypeManager  AgentType = "manager"  // Координация (пара к analyst)
)

// AgentStatus — текущее состояние агента в симуляции.
type AgentStatus string

const (
	StatusActive     AgentStatus = "Active"     // Выполняет задачу
	StatusIdle       AgentStatus = "Idle"       // Простаивает (в т.ч. на подзарядке)
	StatusLearning   AgentStatus = "Learning"   // Дообучение
	StatusOptimizing AgentStatus = "Optimizing" // Самооптимизация
)

// ConnectionQuality — качество связи агента, пересэмплируется каждый тик.
type ConnectionQuality string

const (
	ConnOptimal  ConnectionQuality = "optimal"
	ConnUnstable ConnectionQuality = "unstable"
	ConnOffline  ConnectionQuality = "offline"
)

// Agent — сущность популяции сцены. Мутабельные поля (Status, Energy, Load,
// Cooldown, CurrentTask, Connection) меняет ТОЛЬКО движок тиков через
// атомарную замену всего списка; Name/Role/Type неизменны после создания.
type Agent struct {
	ID   string    `json:"id"`   // Стабильный ID на время сессии
	Name string    `json:"name"` // Человекочитаемое имя ("Atlas", "Nova"...)
	Role string    `json:"role"` // Описание роли для фронта и AI-чата
	Type AgentType `json:"type"`

	Status     AgentStatus       `json:"status"`
	Connection ConnectionQuality `json:"connection_quality"`

	Load   int `json:"load"`   // Нагрузка, всегда в [0,100]
	Energy int `json:"energy"` // Энергия, всегда в [0,100]; драйвер переходов статуса

	Cooldown    int    `json:"cooldown"`     // >= 0, декремент каждый тик (резерв под троттлинг действий)
	CurrentTask string `json:"current_task"` // Текстовая метка текущей активности

	ZoneID string `json:"zone_id"` // FK в каталог зон; неизвестная зона падает в origin
}

// ClampPercent приводит значение к инварианту [0,100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
