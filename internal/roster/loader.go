package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
)

// ErrEmptyRoster — в источнике нет ни одного агента; сессию без популяции
// не стартуем.
var ErrEmptyRoster = errors.New("roster: no agents in source")

// Provider — внешний источник правды стартового состава. Читается один раз
// при бутстрапе сессии; дальше состав живет только в памяти ядра.
type Provider interface {
	LoadRoster(ctx context.Context) ([]domain.Agent, error)
}

// ConfigProvider отдает ростер из секции roster.agents конфига.
type ConfigProvider struct {
	agents []infra.AgentConfig
	logger *zap.Logger
}

func NewConfigProvider(cfg infra.RosterConfig, logger *zap.Logger) *ConfigProvider {
	return &ConfigProvider{
		agents: cfg.Agents,
		logger: logger.Named("roster"),
	}
}

func (p *ConfigProvider) LoadRoster(_ context.Context) ([]domain.Agent, error) {
	if len(p.agents) == 0 {
		return nil, ErrEmptyRoster
	}

	out := make([]domain.Agent, 0, len(p.agents))
	for _, ac := range p.agents {
		out = append(out, Normalize(domain.Agent{
			ID:     ac.ID,
			Name:   ac.Name,
			Role:   ac.Role,
			Type:   domain.AgentType(ac.Type),
			Energy: ac.Energy,
			Load:   ac.Load,
			ZoneID: ac.Zone,
		}))
	}

	p.logger.Info("roster loaded from config", zap.Int("agents", len(out)))
	return out, nil
}

// Normalize приводит сырую запись источника к инвариантам ядра.
// Аномалии данных здесь не ошибки: недостающие поля добиваются дефолтами,
// наружу уходит только пустой ростер.
func Normalize(a domain.Agent) domain.Agent {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Name == "" {
		a.Name = "Agent-" + a.ID[:8]
	}
	// Энергия 0 в источнике означает "не задана": агент стартует заряженным,
	// иначе первый же тик утащит его на подзарядку
	if a.Energy == 0 {
		a.Energy = 100
	}
	a.Energy = domain.ClampPercent(a.Energy)
	a.Load = domain.ClampPercent(a.Load)

	if a.Status == "" {
		a.Status = domain.StatusIdle
	}
	if a.Connection == "" {
		a.Connection = domain.ConnOptimal
	}
	if a.CurrentTask == "" {
		a.CurrentTask = "Thinking"
	}
	if a.Cooldown < 0 {
		a.Cooldown = 0
	}
	return a
}

// ZonesFromConfig собирает каталог зон из конфига сцены.
func ZonesFromConfig(cfg infra.SceneConfig) []domain.Zone {
	out := make([]domain.Zone, 0, len(cfg.Zones))
	for _, zc := range cfg.Zones {
		out = append(out, domain.Zone{
			ID:     zc.ID,
			Name:   zc.Name,
			Anchor: domain.Vector{X: zc.X, Y: zc.Y, Z: zc.Z},
		})
	}
	return out
}
