package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
	"github.com/xela07ax/spaceai-agent-scene/internal/roster"
)

// RosterRepo читает стартовый состав агентов из внешней таблицы agents.
// Это источник правды бутстрапа, не персистентность симуляции: ядро сюда
// никогда не пишет, состояние тиков живет только в памяти сессии.
type RosterRepo struct {
	pool *pgxpool.Pool
}

// NewRosterRepo создает пул соединений по секции database конфига.
func NewRosterRepo(ctx context.Context, cfg infra.DatabaseConfig) (*RosterRepo, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid connection url: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	return &RosterRepo{pool: pool}, nil
}

// Ping проверяет доступность базы при старте
func (r *RosterRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// LoadRoster реализует roster.Provider. Битые записи не валят загрузку —
// нормализация добивает их дефолтами.
func (r *RosterRepo) LoadRoster(ctx context.Context) ([]domain.Agent, error) {
	query := `
		SELECT id, name, role, type, zone_id, energy, load
		FROM agents
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: roster query failed: %w", err)
	}
	defer rows.Close()

	var out []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.Type, &a.ZoneID, &a.Energy, &a.Load); err != nil {
			return nil, fmt.Errorf("postgres: roster scan failed: %w", err)
		}
		out = append(out, roster.Normalize(a))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: roster rows failed: %w", err)
	}

	if len(out) == 0 {
		return nil, roster.ErrEmptyRoster
	}
	return out, nil
}

// Close возвращает ресурсы пула при остановке сервиса.
func (r *RosterRepo) Close() {
	r.pool.Close()
}
