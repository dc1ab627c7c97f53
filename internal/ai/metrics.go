package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

type Metrics struct {
	// Traffic/Errors: исходы походов во внешний AI-сервис
	Requests *prometheus.CounterVec

	// Состояние предохранителя: 0 closed, 1 half-open, 2 open
	BreakerState prometheus.Gauge
}

func NewAIMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "scene_ai_requests_total",
			Help: "External AI completion calls by outcome.",
		}, []string{"outcome"}),

		BreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "scene_ai_breaker_state",
			Help: "Circuit breaker state of the AI provider (0 closed, 1 half-open, 2 open).",
		}),
	}
}

func (m *Metrics) observeState(state gobreaker.State) {
	switch state {
	case gobreaker.StateClosed:
		m.BreakerState.Set(0)
	case gobreaker.StateHalfOpen:
		m.BreakerState.Set(1)
	case gobreaker.StateOpen:
		m.BreakerState.Set(2)
	}
}
