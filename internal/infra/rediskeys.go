package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "scene"
)

// Ключи кэша AI-саммари: scene:summary:{session_id}:{zone_id}.
// Префикс сессии дает изоляцию конкурентных сессий; внутри сессии кэш
// не инвалидируется (одно саммари на зону на сессию).
func SummaryCacheKey(sessionID, zoneID string) string {
	return fmt.Sprintf("%s:summary:%s:%s", RedisNamespace, sessionID, zoneID)
}

// SummaryLockKey — распределенная блокировка на время первого запроса саммари,
// чтобы два инстанса не ходили во внешний API за одной и той же зоной.
func SummaryLockKey(sessionID, zoneID string) string {
	return fmt.Sprintf("%s:lock:summary:%s:%s", RedisNamespace, sessionID, zoneID)
}
