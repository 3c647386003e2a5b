package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики маршрутизатора.
//
// Экспортируются на /metrics endpoint router-бинарника.
var (
	// RequestsTotal — обработанные запросы по группе и стратегии.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superpose_requests_total",
		Help: "Total routed requests by group and strategy",
	}, []string{"group", "strategy"})

	// RequestFailures — запросы, завершившиеся decoherence (все пути упали).
	RequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superpose_request_failures_total",
		Help: "Requests failed after all paths were exhausted",
	}, []string{"group"})

	// RequestDuration — гистограмма задержки запроса от поступления
	// до результата.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "superpose_request_duration_seconds",
		Help:    "End-to-end request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"group", "strategy"})

	// HedgesTriggered — запущенные backup-вызовы по группе.
	HedgesTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superpose_hedges_triggered_total",
		Help: "Backup invocations launched by the hedge orchestrator",
	}, []string{"group"})

	// RaceWins — победы путей в race по имени пути.
	RaceWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "superpose_race_wins_total",
		Help: "Race wins by path",
	}, []string{"path"})

	// SpeculativeInvocations — fire-and-forget speculative вызовы.
	SpeculativeInvocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "superpose_speculative_invocations_total",
		Help: "Speculative follow-up invocations fired",
	})
)
