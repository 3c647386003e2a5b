package race

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/executor"
	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/mq"
	"github.com/shaiso/Superpose/internal/telemetry"
)

// defaultRaceTimeout ограничивает общее время жизни гонки
// независимо от отставших вызовов.
const defaultRaceTimeout = 10 * time.Second

// Coordinator выполняет гонки путей.
type Coordinator struct {
	invoker   *executor.Invoker
	sink      *metrics.Sink
	publisher *mq.Publisher
	timeout   time.Duration
	logger    *slog.Logger
}

// Config — конфигурация Coordinator.
type Config struct {
	// Invoker — точка вызова executor'ов.
	Invoker *executor.Invoker

	// Sink — запись измерений (опционально).
	Sink *metrics.Sink

	// Publisher — эмиссия событий (опционально; nil — без событий).
	Publisher *mq.Publisher

	// Timeout — верхняя граница времени жизни гонки (default: 10s).
	Timeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт Coordinator.
func New(cfg Config) *Coordinator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRaceTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		invoker:   cfg.Invoker,
		sink:      cfg.Sink,
		publisher: cfg.Publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// outcome — исход одной попытки внутри гонки.
type outcome struct {
	path    string
	payload map[string]any
	latency time.Duration
	err     error
}

// Race вызывает все пути одновременно и коллапсирует исходы.
//
// Возвращает payload победителя и терминальный RaceResult.
// При decoherence payload == nil и возвращается ErrAllPathsFailed
// с перечислением всех упавших источников.
func (c *Coordinator) Race(ctx context.Context, req *domain.RouteRequest, paths []domain.Path, perAttemptTimeout time.Duration) (map[string]any, domain.RaceResult, error) {
	if len(paths) == 0 {
		return nil, domain.RaceResult{Decoherent: true}, ErrNoPaths
	}

	raceCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Буфер на всех участников: отставшие никогда не блокируются
	// и не текут после коллапса.
	outcomes := make(chan outcome, len(paths))

	for i := range paths {
		path := paths[i]
		go func() {
			start := time.Now()
			payload, err := c.invoker.Invoke(raceCtx, path.Name, req.Payload, perAttemptTimeout)
			latency := time.Since(start)

			outcomes <- outcome{path: path.Name, payload: payload, latency: latency, err: err}

			// Измерение каждой попытки, включая проигравших и отставших
			if c.sink != nil {
				c.sink.Observe(ctx, path.Name, req.ID, latency, err == nil)
			}
		}()
	}

	failures := make([]string, 0, len(paths))
	for received := 0; received < len(paths); received++ {
		select {
		case out := <-outcomes:
			if out.err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", out.path, out.err))
				continue
			}

			// Первый успех коллапсирует суперпозицию: остальные
			// вызовы отменяются best-effort через raceCtx.
			cancel()

			result := domain.RaceResult{
				Winner:           out.path,
				WinningLatencyMs: out.latency.Milliseconds(),
				CandidateCount:   len(paths),
				SuccessCount:     1,
			}
			c.resolved(ctx, req, result)
			return out.payload, result, nil

		case <-raceCtx.Done():
			// Таймаут координатора ограничивает гонку целиком
			result := domain.RaceResult{
				CandidateCount: len(paths),
				Decoherent:     true,
			}
			c.resolved(ctx, req, result)
			return nil, result, fmt.Errorf("%w: race timed out after %s (failed: %s)",
				ErrAllPathsFailed, c.timeout, summarize(failures))
		}
	}

	// Все участники ответили, ни одного успеха — decoherence
	result := domain.RaceResult{
		CandidateCount: len(paths),
		Decoherent:     true,
	}
	c.resolved(ctx, req, result)
	return nil, result, fmt.Errorf("%w: %s", ErrAllPathsFailed, summarize(failures))
}

// resolved логирует коллапс, обновляет метрики и эмитит событие.
func (c *Coordinator) resolved(ctx context.Context, req *domain.RouteRequest, result domain.RaceResult) {
	if result.Decoherent {
		c.logger.Warn("race decoherent: all paths failed",
			"request_id", req.ID,
			"candidates", result.CandidateCount,
		)
	} else {
		telemetry.RaceWins.WithLabelValues(result.Winner).Inc()
		c.logger.Debug("race resolved",
			"request_id", req.ID,
			"winner", result.Winner,
			"latency_ms", result.WinningLatencyMs,
			"efficiency", result.Efficiency(),
		)
	}

	if c.publisher != nil {
		c.publisher.PublishRaceResolved(ctx, mq.RaceResolvedPayload{
			RequestID: req.ID,
			Group:     req.Group,
			Result:    result,
		})
	}
}

// summarize собирает список упавших источников в одну строку.
func summarize(failures []string) string {
	if len(failures) == 0 {
		return "no responses"
	}
	return strings.Join(failures, "; ")
}
