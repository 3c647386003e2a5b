package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Superpose/internal/domain"
)

const defaultObservationTTL = time.Hour

// Sink — единая точка записи результата попытки.
//
// Пишет observation в Store и инкрементирует StatsTable.
// Ошибки записи логируются и никогда не распространяются:
// деградация metrics-слоя не должна ронять запрос.
type Sink struct {
	store  Store
	stats  *StatsTable
	ttl    time.Duration
	logger *slog.Logger
}

// NewSink создаёт Sink.
//
// ttl — время жизни observations (default: 1h).
func NewSink(store Store, stats *StatsTable, ttl time.Duration, logger *slog.Logger) *Sink {
	if ttl <= 0 {
		ttl = defaultObservationTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, stats: stats, ttl: ttl, logger: logger}
}

// Observe записывает одну попытку вызова пути.
func (s *Sink) Observe(ctx context.Context, pathName string, requestID uuid.UUID, latency time.Duration, success bool) {
	if s.stats != nil {
		s.stats.Observe(pathName, latency, success)
	}
	s.record(ctx, domain.NewObservation(pathName, requestID, latency, success, s.ttl))
}

// ObserveOutcome записывает терминальный исход запроса,
// помеченный стратегией. StatsTable не трогается: агрегированная
// статистика путей накапливается по отдельным попыткам.
func (s *Sink) ObserveOutcome(ctx context.Context, pathName string, requestID uuid.UUID, latency time.Duration, success bool, strategy domain.StrategyKind) {
	obs := domain.NewObservation(pathName, requestID, latency, success, s.ttl)
	obs.Strategy = string(strategy)
	s.record(ctx, obs)
}

// record пишет observation в Store, поглощая ошибки.
func (s *Sink) record(ctx context.Context, obs domain.ExecutionObservation) {
	if s.store == nil {
		return
	}
	// Запись не должна отменяться вместе с уже разрешённым запросом
	if err := s.store.Record(context.WithoutCancel(ctx), obs); err != nil {
		s.logger.Warn("failed to record observation",
			"path", obs.PathName,
			"request_id", obs.RequestID,
			"error", err,
		)
	}
}

// Stats возвращает таблицу статистики Sink'а.
func (s *Sink) Stats() *StatsTable {
	return s.stats
}
