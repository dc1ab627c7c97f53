package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько занимает полный тик (апдейт + размещение + детекция)
	TickDuration prometheus.Histogram

	// Traffic: общее кол-во опубликованных снапшотов
	TicksTotal prometheus.Counter

	// Состояние популяции по статусам (Active/Idle/Learning/Optimizing)
	AgentsByStatus *prometheus.GaugeVec

	// Размер активного набора взаимодействий на последнем тике
	ActiveInteractions prometheus.Gauge

	// Errors: изолированные сбои per-agent апдейта (агент остался в прошлом состоянии)
	UpdateFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		TickDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "scene_tick_duration_seconds",
			Help:    "Histogram of full simulation tick latencies.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),

		TicksTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "scene_ticks_total",
			Help: "Total number of published snapshots.",
		}),

		AgentsByStatus: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "scene_agents",
			Help: "Current population size by agent status.",
		}, []string{"status"}),

		ActiveInteractions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "scene_active_interactions",
			Help: "Number of interaction links in the latest snapshot.",
		}),

		UpdateFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "scene_agent_update_failures_total",
			Help: "Per-agent update failures absorbed by the tick loop.",
		}),
	}
}
