package hedge

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
	"github.com/shaiso/Superpose/internal/race"
	"github.com/shaiso/Superpose/internal/telemetry"
)

// Default configuration values.
const (
	defaultHedgeThreshold    = 200 * time.Millisecond
	defaultMaxHedgedRequests = 2
	defaultWindowSpan        = time.Hour
	defaultWindowLimit       = 100

	// primaryTimeoutMultiplier — щедрый таймаут primary-only вызова
	// в порогах hedging.
	primaryTimeoutMultiplier = 3
)

// Orchestrator выполняет запрос по выбранной стратегии.
type Orchestrator struct {
	invoker   *executor.Invoker
	race      *race.Coordinator
	store     metrics.Store
	sink      *metrics.Sink
	publisher *mq.Publisher

	windowSpan  time.Duration
	windowLimit int
	followups   map[string][]map[string]any

	logger *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Invoker — точка вызова executor'ов.
	Invoker *executor.Invoker

	// Race — координатор гонок (для ImmediateHedge).
	Race *race.Coordinator

	// Store — оконные observations для фазы Deciding.
	Store metrics.Store

	// Sink — запись измерений.
	Sink *metrics.Sink

	// Publisher — эмиссия событий (опционально).
	Publisher *mq.Publisher

	// WindowSpan — глубина окна для Deciding (default: 1h).
	WindowSpan time.Duration

	// WindowLimit — максимум observations в окне (default: 100).
	WindowLimit int

	// Followups — статическая таблица: request kind → payloads
	// вероятных следующих запросов (для Speculative).
	Followups map[string][]map[string]any

	// Logger
	Logger *slog.Logger
}

// New создаёт Orchestrator.
func New(cfg Config) *Orchestrator {
	windowSpan := cfg.WindowSpan
	if windowSpan <= 0 {
		windowSpan = defaultWindowSpan
	}

	windowLimit := cfg.WindowLimit
	if windowLimit <= 0 {
		windowLimit = defaultWindowLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		invoker:     cfg.Invoker,
		race:        cfg.Race,
		store:       cfg.Store,
		sink:        cfg.Sink,
		publisher:   cfg.Publisher,
		windowSpan:  windowSpan,
		windowLimit: windowLimit,
		followups:   cfg.Followups,
		logger:      logger,
	}
}

// outcome — исход одной попытки внутри delayed hedge.
type outcome struct {
	path    string
	payload map[string]any
	err     error
}

// Execute проводит запрос через state machine до терминального исхода.
//
// Каждый терминальный исход (успех или нет) даёт ровно одну
// strategy-tagged запись в Metrics Store и одно request.routed событие.
func (o *Orchestrator) Execute(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path) (*domain.RouteResult, error) {
	start := time.Now()

	strategy, window := o.Decide(ctx, req, group, primary.Name)

	o.logger.Debug("strategy decided",
		"request_id", req.ID,
		"group", group.Name,
		"primary", primary.Name,
		"strategy", strategy.Kind,
		"reason", strategy.Reason,
		"window_count", window.Count,
	)

	var (
		payload    map[string]any
		winner     string
		hedgeCount int
		err        error
	)

	switch strategy.Kind {
	case domain.StrategyImmediateHedge:
		payload, winner, hedgeCount, err = o.executeImmediateHedge(ctx, req, group, primary)
	case domain.StrategyDelayedHedge:
		payload, winner, hedgeCount, err = o.executeDelayedHedge(ctx, req, group, primary)
	case domain.StrategySpeculative:
		payload, winner, err = o.executeSpeculative(ctx, req, group, primary)
	default:
		payload, winner, err = o.executePrimaryOnly(ctx, req, group, primary)
	}

	latency := time.Since(start)
	success := err == nil

	// Ровно одна strategy-tagged запись на терминальный исход,
	// включая путь ошибки.
	outcomePath := winner
	if outcomePath == "" {
		outcomePath = primary.Name
	}
	if o.sink != nil {
		o.sink.ObserveOutcome(ctx, outcomePath, req.ID, latency, success, strategy.Kind)
	}

	telemetry.RequestsTotal.WithLabelValues(group.Name, string(strategy.Kind)).Inc()
	telemetry.RequestDuration.WithLabelValues(group.Name, string(strategy.Kind)).Observe(latency.Seconds())
	if !success {
		telemetry.RequestFailures.WithLabelValues(group.Name).Inc()
	}

	if o.publisher != nil {
		o.publisher.PublishRequestRouted(ctx, mq.RequestRoutedPayload{
			RequestID:     req.ID,
			Group:         group.Name,
			Strategy:      strategy.Kind,
			WinningSource: winner,
			LatencyMs:     latency.Milliseconds(),
			Success:       success,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.ID, err)
	}

	return &domain.RouteResult{
		RequestID:     req.ID,
		Payload:       payload,
		Strategy:      strategy.Kind,
		Reason:        strategy.Reason,
		WinningSource: winner,
		LatencyMs:     latency.Milliseconds(),
		HedgeCount:    hedgeCount,
	}, nil
}

// executePrimaryOnly вызывает primary с щедрым таймаутом.
func (o *Orchestrator) executePrimaryOnly(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path) (map[string]any, string, error) {
	timeout := primaryTimeoutMultiplier * hedgeThreshold(group)

	start := time.Now()
	payload, err := o.invoker.Invoke(ctx, primary.Name, req.Payload, timeout)
	latency := time.Since(start)

	if o.sink != nil {
		o.sink.Observe(ctx, primary.Name, req.ID, latency, err == nil)
	}

	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", race.ErrAllPathsFailed, primary.Name, err)
	}
	return payload, primary.Name, nil
}

// executeImmediateHedge запускает primary и backups сразу параллельно.
//
// Семантика коллапса та же, что у race: первый успех побеждает,
// остальные отменяются best-effort.
func (o *Orchestrator) executeImmediateHedge(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path) (map[string]any, string, int, error) {
	backups := group.Backups(primary.Name, maxHedged(group))
	candidates := append([]domain.Path{primary}, backups...)

	o.hedgeTriggered(ctx, req, group, primary, domain.StrategyImmediateHedge, backups)

	payload, result, err := o.race.Race(ctx, req, candidates, o.invoker.Timeout())
	if err != nil {
		return nil, "", len(backups), err
	}
	return payload, result.Winner, len(backups), nil
}

// executeDelayedHedge вызывает primary сразу и взводит таймер порога.
//
// Если primary успевает до таймера — таймер снимается, возвращается
// результат primary. Если таймер срабатывает первым — запускаются
// backups и гонятся против всё ещё выполняющегося primary. Падение
// primary до таймера запускает backups немедленно: запрос не виснет.
// Запрос фейлится только когда упали все участники.
func (o *Orchestrator) executeDelayedHedge(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path) (map[string]any, string, int, error) {
	threshold := hedgeThreshold(group)
	attemptTimeout := o.invoker.Timeout()
	backups := group.Backups(primary.Name, maxHedged(group))

	// Верхняя граница заведомо >= задержки таймера плюс полного
	// таймаута одной попытки: легитимно отложенный hedge всегда
	// успевает получить свой шанс.
	overall := threshold + 2*attemptTimeout
	hedgeCtx, cancel := context.WithTimeout(ctx, overall)
	defer cancel()

	// Буфер на всех возможных участников: поздние исходы не блокируются
	results := make(chan outcome, 1+len(backups))

	launch := func(path domain.Path) {
		go func() {
			start := time.Now()
			payload, err := o.invoker.Invoke(hedgeCtx, path.Name, req.Payload, attemptTimeout)
			latency := time.Since(start)

			results <- outcome{path: path.Name, payload: payload, err: err}

			if o.sink != nil {
				o.sink.Observe(ctx, path.Name, req.ID, latency, err == nil)
			}
		}()
	}

	launch(primary)
	pending := 1
	hedged := false
	hedgeCount := 0

	timer := time.NewTimer(threshold)
	defer timer.Stop()

	launchBackups := func() {
		hedged = true
		timer.Stop()
		for i := range backups {
			launch(backups[i])
		}
		pending += len(backups)
		hedgeCount = len(backups)
		if len(backups) > 0 {
			o.hedgeTriggered(ctx, req, group, primary, domain.StrategyDelayedHedge, backups)
		}
	}

	var failures []string
	for {
		select {
		case out := <-results:
			if out.err == nil {
				// Первый успех разрешает запрос; остальные отменяются
				cancel()
				return out.payload, out.path, hedgeCount, nil
			}

			failures = append(failures, fmt.Sprintf("%s: %v", out.path, out.err))
			pending--

			// Primary упал до таймера — запускаем backups немедленно
			if !hedged {
				launchBackups()
			}

			if pending == 0 {
				return nil, "", hedgeCount, fmt.Errorf("%w: %s",
					race.ErrAllPathsFailed, strings.Join(failures, "; "))
			}

		case <-timer.C:
			if !hedged {
				launchBackups()
			}

		case <-hedgeCtx.Done():
			return nil, "", hedgeCount, fmt.Errorf("%w: hedge timed out after %s (failed: %s)",
				race.ErrAllPathsFailed, overall, summarizeFailures(failures))
		}
	}
}

// hedgeTriggered учитывает запуск backup-вызовов.
func (o *Orchestrator) hedgeTriggered(ctx context.Context, req *domain.RouteRequest, group *domain.RoutingGroup, primary domain.Path, strategy domain.StrategyKind, backups []domain.Path) {
	telemetry.HedgesTriggered.WithLabelValues(group.Name).Add(float64(len(backups)))

	if o.publisher == nil {
		return
	}

	names := make([]string, len(backups))
	for i := range backups {
		names[i] = backups[i].Name
	}
	o.publisher.PublishHedgeTriggered(ctx, mq.HedgeTriggeredPayload{
		RequestID: req.ID,
		Group:     group.Name,
		Primary:   primary.Name,
		Strategy:  strategy,
		Backups:   names,
	})
}

// summarizeFailures собирает упавшие источники в одну строку.
func summarizeFailures(failures []string) string {
	if len(failures) == 0 {
		return "no responses"
	}
	return strings.Join(failures, "; ")
}

// hedgeThreshold возвращает порог hedging группы.
func hedgeThreshold(group *domain.RoutingGroup) time.Duration {
	if group.HedgeThresholdMs > 0 {
		return time.Duration(group.HedgeThresholdMs) * time.Millisecond
	}
	return defaultHedgeThreshold
}

// maxHedged возвращает лимит backup-вызовов группы.
func maxHedged(group *domain.RoutingGroup) int {
	if group.MaxHedgedRequests > 0 {
		return group.MaxHedgedRequests
	}
	return defaultMaxHedgedRequests
}
