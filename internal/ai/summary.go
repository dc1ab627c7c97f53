package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
)

// SummaryCache — L2 кэш саммари зон. В проде Redis, в тестах память.
type SummaryCache interface {
	Get(ctx context.Context, sessionID, zoneID string) (string, bool, error)
	Set(ctx context.Context, sessionID, zoneID, text string) error
}

// RedisSummaryCache хранит саммари под session-scoped ключами.
// TTL с запасом больше типичной сессии: внутри сессии кэш не инвалидируется.
type RedisSummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: 24 * time.Hour}
}

func (c *RedisSummaryCache) Get(ctx context.Context, sessionID, zoneID string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, infra.SummaryCacheKey(sessionID, zoneID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, sessionID, zoneID, text string) error {
	return c.rdb.Set(ctx, infra.SummaryCacheKey(sessionID, zoneID), text, c.ttl).Err()
}

// MemorySummaryCache — кэш в памяти процесса (тесты, запуск без Redis).
type MemorySummaryCache struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemorySummaryCache() *MemorySummaryCache {
	return &MemorySummaryCache{m: make(map[string]string)}
}

func (c *MemorySummaryCache) Get(_ context.Context, sessionID, zoneID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[sessionID+":"+zoneID]
	return v, ok, nil
}

func (c *MemorySummaryCache) Set(_ context.Context, sessionID, zoneID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[sessionID+":"+zoneID] = text
	return nil
}

// SummaryService лениво запрашивает у AI-сервиса короткое саммари зоны:
// не чаще одного раза на зону за сессию, результат кэшируется навсегда
// в рамках сессии. Сбой внешнего сервиса — ошибка наружу, ядро не трогаем.
type SummaryService struct {
	completer Completer
	cache     SummaryCache
	zones     *sim.ZoneDirectory
	snapshots sim.SnapshotProvider
	logger    *zap.Logger

	mu sync.Mutex // Сериализует первый запрос по каждой зоне
}

func NewSummaryService(
	completer Completer,
	cache SummaryCache,
	zones *sim.ZoneDirectory,
	snapshots sim.SnapshotProvider,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		completer: completer,
		cache:     cache,
		zones:     zones,
		snapshots: snapshots,
		logger:    logger.Named("zone-summary"),
	}
}

// ZoneSummary отдает саммари зоны: из кэша или с одним походом во внешний API.
func (s *SummaryService) ZoneSummary(ctx context.Context, sessionID, zoneID string) (string, error) {
	if text, ok, err := s.cache.Get(ctx, sessionID, zoneID); err != nil {
		// Деградация: кэш недоступен — идем напрямую, но не падаем
		s.logger.Warn("summary cache read failed", zap.Error(err))
	} else if ok {
		return text, nil
	}

	// Один запрос на зону: параллельные первые обращения не плодят вызовы API
	s.mu.Lock()
	defer s.mu.Unlock()

	if text, ok, _ := s.cache.Get(ctx, sessionID, zoneID); ok {
		return text, nil
	}

	resp, err := s.completer.Complete(ctx, CompletionRequest{
		System:    "You are the operations narrator of an agent dashboard. Reply with a single short paragraph.",
		Prompt:    s.buildZonePrompt(zoneID),
		MaxTokens: 160,
	})
	if err != nil {
		return "", fmt.Errorf("zone summary failed: %w", err)
	}

	if cerr := s.cache.Set(ctx, sessionID, zoneID, resp.Text); cerr != nil {
		s.logger.Warn("summary cache write failed", zap.Error(cerr))
	}

	s.logger.Info("zone summary fetched",
		zap.String("zone_id", zoneID),
		zap.String("model", resp.Model))
	return resp.Text, nil
}

// buildZonePrompt собирает контекст зоны из последнего снапшота.
func (s *SummaryService) buildZonePrompt(zoneID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize current activity in zone %q.", zoneID)

	snap := s.snapshots.Latest()
	if snap == nil {
		return b.String()
	}

	var local []domain.PlacedAgent
	for _, a := range snap.Agents {
		if a.ZoneID == zoneID {
			local = append(local, a)
		}
	}
	fmt.Fprintf(&b, " Agents present: %d.", len(local))
	for _, a := range local {
		fmt.Fprintf(&b, " %s (%s, %s, energy %d%%, task: %s).",
			a.Name, a.Type, a.Status, a.Energy, a.CurrentTask)
	}
	return b.String()
}
