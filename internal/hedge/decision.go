package hedge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
)

// Пороги принятия решения.
const (
	// maxErrorRate — доля ошибок primary, выше которой hedging
	// запускается немедленно.
	maxErrorRate = 0.05

	// p95Multiplier — множитель порога для проверки p95.
	p95Multiplier = 2
)

// Decide выбирает стратегию для запроса по оконной статистике primary.
//
// Недоступность Metrics Store не фейлит запрос: окно считается пустым
// (errorRate 0, avg 0), пишется warning.
func (o *Orchestrator) Decide(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary string) (domain.Strategy, domain.WindowStats) {
	threshold := float64(hedgeThreshold(group).Milliseconds())

	window := o.window(ctx, primary)

	switch {
	case window.ErrorRate > maxErrorRate:
		return domain.Strategy{
			Kind:   domain.StrategyImmediateHedge,
			Reason: fmt.Sprintf("high error rate: %.1f%%", window.ErrorRate*100),
		}, window

	case window.P95LatencyMs > p95Multiplier*threshold:
		return domain.Strategy{
			Kind:   domain.StrategyImmediateHedge,
			Reason: fmt.Sprintf("high P95 latency: %.0fms", window.P95LatencyMs),
		}, window

	case window.AverageLatencyMs > threshold:
		return domain.Strategy{
			Kind:   domain.StrategyDelayedHedge,
			Reason: fmt.Sprintf("average latency above threshold: %.0fms", window.AverageLatencyMs),
		}, window

	case group.SpeculativeEnabled && req.HighValue():
		return domain.Strategy{
			Kind:   domain.StrategySpeculative,
			Reason: "high-value request optimization",
		}, window

	default:
		return domain.Strategy{
			Kind:   domain.StrategyPrimaryOnly,
			Reason: "primary path healthy",
		}, window
	}
}

// window читает и агрегирует свежие observations primary пути.
func (o *Orchestrator) window(ctx context.Context, primary string) domain.WindowStats {
	since := time.Now().Add(-o.windowSpan)

	observations, err := o.store.Query(ctx, primary, since, o.windowLimit)
	if err != nil {
		// Availability over consistency: деградируем к пустому окну
		o.logger.Warn("metrics store unavailable, degrading to empty window",
			"path", primary,
			"error", err,
		)
		return domain.WindowStats{}
	}

	return computeWindow(observations)
}

// computeWindow агрегирует окно observations.
func computeWindow(observations []domain.ExecutionObservation) domain.WindowStats {
	n := len(observations)
	if n == 0 {
		return domain.WindowStats{}
	}

	latencies := make([]float64, n)
	var totalLatency float64
	failed := 0
	for i := range observations {
		latencies[i] = float64(observations[i].LatencyMs)
		totalLatency += latencies[i]
		if !observations[i].Success {
			failed++
		}
	}

	return domain.WindowStats{
		Count:            n,
		AverageLatencyMs: totalLatency / float64(n),
		P95LatencyMs:     percentile(latencies, 95),
		ErrorRate:        float64(failed) / float64(n),
	}
}

// percentile — nearest-rank перцентиль: index = ceil(p/100 × n) − 1,
// прижатый к >= 0. Сортирует копию среза.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
