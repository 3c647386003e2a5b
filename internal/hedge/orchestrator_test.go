package hedge

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/executor"
	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/race"
)

// funcExecutor адаптирует функцию под интерфейс executor.Executor.
type funcExecutor func(ctx context.Context, payload map[string]any) (map[string]any, error)

func (f funcExecutor) Invoke(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return f(ctx, payload)
}

func delayOK(d time.Duration, name string) funcExecutor {
	return func(ctx context.Context, _ map[string]any) (map[string]any, error) {
		select {
		case <-time.After(d):
			return map[string]any{"source": name}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func alwaysFail() funcExecutor {
	return func(ctx context.Context, _ map[string]any) (map[string]any, error) {
		return nil, fmt.Errorf("backend down")
	}
}

// fixture — собранный orchestrator с in-memory хранилищем.
type fixture struct {
	orchestrator *Orchestrator
	store        *metrics.MemoryStore
	stats        *metrics.StatsTable
}

func newFixture(t *testing.T, registry *executor.Registry, followups map[string][]map[string]any) *fixture {
	t.Helper()

	store := metrics.NewMemoryStore()
	stats := metrics.NewStatsTable()
	sink := metrics.NewSink(store, stats, time.Hour, nil)
	invoker := executor.NewInvoker(registry, time.Second)

	coordinator := race.New(race.Config{
		Invoker: invoker,
		Sink:    sink,
		Timeout: 2 * time.Second,
	})

	return &fixture{
		orchestrator: New(Config{
			Invoker:   invoker,
			Race:      coordinator,
			Store:     store,
			Sink:      sink,
			Followups: followups,
		}),
		store: store,
		stats: stats,
	}
}

// seedWindow наполняет окно primary наблюдениями с заданной
// задержкой и количеством ошибок.
func seedWindow(t *testing.T, store *metrics.MemoryStore, path string, total, failures int, latencyMs int64) {
	t.Helper()

	now := time.Now()
	for i := 0; i < total; i++ {
		store.Record(context.Background(), domain.ExecutionObservation{
			ID:        uuid.New(),
			PathName:  path,
			RequestID: uuid.New(),
			LatencyMs: latencyMs,
			Success:   i >= failures,
			Timestamp: now.Add(-time.Duration(total-i) * time.Second),
			ExpiresAt: now.Add(time.Hour),
		})
	}
}

func testGroup(thresholdMs int64, speculative bool, paths ...string) *domain.RoutingGroup {
	group := &domain.RoutingGroup{
		Name:               "g",
		HedgeThresholdMs:   thresholdMs,
		MaxHedgedRequests:  2,
		SpeculativeEnabled: speculative,
	}
	for _, name := range paths {
		group.Paths = append(group.Paths, domain.Path{Name: name, Weight: 1})
	}
	return group
}

// --- Decide Tests ---

func TestDecide_EmptyWindowPrimaryOnly(t *testing.T) {
	f := newFixture(t, executor.NewRegistry(), nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	strategy, window := f.orchestrator.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategyPrimaryOnly {
		t.Errorf("empty window must yield PRIMARY_ONLY, got %s (%s)", strategy.Kind, strategy.Reason)
	}
	if window.Count != 0 {
		t.Errorf("expected empty window, got %d observations", window.Count)
	}
}

func TestDecide_HighErrorRateImmediate(t *testing.T) {
	f := newFixture(t, executor.NewRegistry(), nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	// 20% ошибок при здоровой задержке
	seedWindow(t, f.store, "p", 10, 2, 50)

	strategy, _ := f.orchestrator.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategyImmediateHedge {
		t.Errorf("high error rate must yield IMMEDIATE_HEDGE, got %s", strategy.Kind)
	}
}

func TestDecide_HighP95Immediate(t *testing.T) {
	f := newFixture(t, executor.NewRegistry(), nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	// p95 = 250ms > 2 × 100ms, средняя пока под порогом не важна:
	// p95 проверяется раньше средней
	seedWindow(t, f.store, "p", 20, 0, 250)

	strategy, _ := f.orchestrator.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategyImmediateHedge {
		t.Errorf("high P95 must yield IMMEDIATE_HEDGE, got %s", strategy.Kind)
	}
}

func TestDecide_ElevatedAverageDelayed(t *testing.T) {
	f := newFixture(t, executor.NewRegistry(), nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	// 150ms: выше порога, но p95 ниже 2×порога и ошибок нет
	seedWindow(t, f.store, "p", 20, 0, 150)

	strategy, _ := f.orchestrator.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategyDelayedHedge {
		t.Errorf("elevated average must yield DELAYED_HEDGE, got %s", strategy.Kind)
	}
}

func TestDecide_SpeculativeForHighValue(t *testing.T) {
	f := newFixture(t, executor.NewRegistry(), nil)
	group := testGroup(100, true, "p")

	req := domain.NewRouteRequest("g")
	req.Priority = domain.PriorityHigh

	seedWindow(t, f.store, "p", 20, 0, 50)

	strategy, _ := f.orchestrator.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategySpeculative {
		t.Errorf("healthy primary + high-value must yield SPECULATIVE, got %s", strategy.Kind)
	}

	// Обычный приоритет — PRIMARY_ONLY даже при включённом speculative
	normal := domain.NewRouteRequest("g")
	strategy, _ = f.orchestrator.Decide(context.Background(), normal, group, "p")
	if strategy.Kind != domain.StrategyPrimaryOnly {
		t.Errorf("normal priority must yield PRIMARY_ONLY, got %s", strategy.Kind)
	}
}

type failingStore struct{}

func (failingStore) Record(context.Context, domain.ExecutionObservation) error { return nil }

func (failingStore) Query(context.Context, string, time.Time, int) ([]domain.ExecutionObservation, error) {
	return nil, errors.New("store down")
}

func TestDecide_StoreFailureDegradesToEmptyWindow(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", delayOK(5*time.Millisecond, "p"))

	o := New(Config{
		Invoker: executor.NewInvoker(registry, time.Second),
		Store:   failingStore{},
	})
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	strategy, window := o.Decide(context.Background(), req, group, "p")
	if strategy.Kind != domain.StrategyPrimaryOnly {
		t.Errorf("store failure must degrade to PRIMARY_ONLY, got %s", strategy.Kind)
	}
	if window.Count != 0 {
		t.Error("degraded window must be empty")
	}
}

// --- Execute Tests ---

func TestExecute_PrimaryOnlySuccess(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", delayOK(10*time.Millisecond, "p"))

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p", "b")
	req := domain.NewRouteRequest("g")

	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != domain.StrategyPrimaryOnly {
		t.Errorf("expected PRIMARY_ONLY, got %s", result.Strategy)
	}
	if result.WinningSource != "p" {
		t.Errorf("expected winner p, got %s", result.WinningSource)
	}
	if result.HedgeCount != 0 {
		t.Errorf("expected no hedges, got %d", result.HedgeCount)
	}
	if result.Payload["source"] != "p" {
		t.Error("payload must come from primary")
	}
}

func TestExecute_ExactlyOneStrategyTaggedOutcome(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", delayOK(5*time.Millisecond, "p"))

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	if _, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	observations, err := f.store.Query(context.Background(), "p", time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tagged := 0
	for i := range observations {
		if observations[i].Strategy != "" {
			tagged++
		}
	}
	if tagged != 1 {
		t.Errorf("expected exactly 1 strategy-tagged outcome, got %d", tagged)
	}
}

func TestExecute_PrimaryFailureTagged(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", alwaysFail())

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p")
	req := domain.NewRouteRequest("g")

	_, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if !errors.Is(err, race.ErrAllPathsFailed) {
		t.Fatalf("expected ErrAllPathsFailed, got %v", err)
	}

	// Терминальный исход пишется и на пути ошибки
	observations, _ := f.store.Query(context.Background(), "p", time.Now().Add(-time.Hour), 0)
	tagged := 0
	for i := range observations {
		if observations[i].Strategy != "" {
			tagged++
			if observations[i].Success {
				t.Error("failed outcome must be recorded as failure")
			}
		}
	}
	if tagged != 1 {
		t.Errorf("expected exactly 1 strategy-tagged outcome, got %d", tagged)
	}
}

func TestExecute_ImmediateHedgeBackupWins(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", alwaysFail())
	registry.Register("b", delayOK(10*time.Millisecond, "b"))

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p", "b")
	req := domain.NewRouteRequest("g")

	// Высокая доля ошибок primary включает immediate hedge
	seedWindow(t, f.store, "p", 10, 5, 50)

	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != domain.StrategyImmediateHedge {
		t.Errorf("expected IMMEDIATE_HEDGE, got %s", result.Strategy)
	}
	if result.WinningSource != "b" {
		t.Errorf("expected backup to win, got %s", result.WinningSource)
	}
	if result.HedgeCount != 1 {
		t.Errorf("expected 1 hedge, got %d", result.HedgeCount)
	}
}

func TestExecute_DelayedHedgeBackupOvertakes(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", delayOK(500*time.Millisecond, "p"))
	registry.Register("b", delayOK(20*time.Millisecond, "b"))

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p", "b")
	req := domain.NewRouteRequest("g")

	// Средняя выше порога, p95 ниже 2×порога — delayed hedge
	seedWindow(t, f.store, "p", 20, 0, 150)

	start := time.Now()
	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != domain.StrategyDelayedHedge {
		t.Errorf("expected DELAYED_HEDGE, got %s", result.Strategy)
	}
	if result.WinningSource != "b" {
		t.Errorf("expected backup to overtake, got %s", result.WinningSource)
	}
	if result.HedgeCount != 1 {
		t.Errorf("expected 1 hedge, got %d", result.HedgeCount)
	}

	// Backup стартует на ~100ms и отвечает за ~20ms: задолго до primary
	if elapsed >= 400*time.Millisecond {
		t.Errorf("hedged request must resolve before slow primary, took %s", elapsed)
	}
}

func TestExecute_DelayedHedgeFastPrimaryNoHedge(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", delayOK(10*time.Millisecond, "p"))
	registry.Register("b", delayOK(10*time.Millisecond, "b"))

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p", "b")
	req := domain.NewRouteRequest("g")

	seedWindow(t, f.store, "p", 20, 0, 150)

	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WinningSource != "p" {
		t.Errorf("fast primary must win without hedging, got %s", result.WinningSource)
	}
	if result.HedgeCount != 0 {
		t.Errorf("timer must be cancelled before firing, got %d hedges", result.HedgeCount)
	}
}

func TestExecute_DelayedHedgeEarlyPrimaryFailure(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", alwaysFail())
	registry.Register("b", delayOK(20*time.Millisecond, "b"))

	f := newFixture(t, registry, nil)
	group := testGroup(200, false, "p", "b")
	req := domain.NewRouteRequest("g")

	seedWindow(t, f.store, "p", 20, 0, 300)

	start := time.Now()
	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WinningSource != "b" {
		t.Errorf("expected backup to rescue the request, got %s", result.WinningSource)
	}

	// Падение primary запускает backups немедленно, не дожидаясь таймера
	if elapsed >= 200*time.Millisecond {
		t.Errorf("early primary failure must trigger backups before the timer, took %s", elapsed)
	}
}

func TestExecute_DelayedHedgeAllFail(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("p", alwaysFail())
	registry.Register("b", alwaysFail())

	f := newFixture(t, registry, nil)
	group := testGroup(100, false, "p", "b")
	req := domain.NewRouteRequest("g")

	seedWindow(t, f.store, "p", 20, 0, 150)

	_, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if !errors.Is(err, race.ErrAllPathsFailed) {
		t.Fatalf("expected ErrAllPathsFailed, got %v", err)
	}
}

func TestExecute_SpeculativeFailuresInvisible(t *testing.T) {
	var speculativeCalls atomic.Int64

	registry := executor.NewRegistry()
	registry.Register("p", funcExecutor(func(ctx context.Context, payload map[string]any) (map[string]any, error) {
		if payload["speculative"] == true {
			speculativeCalls.Add(1)
			return nil, fmt.Errorf("followup backend down")
		}
		return map[string]any{"source": "p"}, nil
	}))

	followups := map[string][]map[string]any{
		"checkout": {
			{"speculative": true},
			{"speculative": true},
		},
	}

	f := newFixture(t, registry, followups)
	group := testGroup(100, true, "p")

	req := domain.NewRouteRequest("g")
	req.Priority = domain.PriorityHigh
	req.Kind = "checkout"

	seedWindow(t, f.store, "p", 20, 0, 50)

	result, err := f.orchestrator.Execute(context.Background(), req, group, group.Paths[0])
	if err != nil {
		t.Fatalf("speculative failures must not fail the request: %v", err)
	}
	if result.Strategy != domain.StrategySpeculative {
		t.Errorf("expected SPECULATIVE, got %s", result.Strategy)
	}
	if result.Payload["source"] != "p" {
		t.Error("payload must come from primary")
	}

	// Fire-and-forget вызовы успевают отработать в фоне
	deadline := time.After(time.Second)
	for speculativeCalls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 speculative calls, got %d", speculativeCalls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// --- Window Tests ---

func TestPercentile_NearestRank(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	// ceil(95/100 × 10) − 1 = 9
	if got := percentile(values, 95); got != 100 {
		t.Errorf("expected p95=100, got %.0f", got)
	}
	// ceil(50/100 × 10) − 1 = 4
	if got := percentile(values, 50); got != 50 {
		t.Errorf("expected p50=50, got %.0f", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Errorf("empty input must yield 0, got %.0f", got)
	}
	if got := percentile([]float64{42}, 95); got != 42 {
		t.Errorf("single value must be its own percentile, got %.0f", got)
	}
}

func TestComputeWindow(t *testing.T) {
	observations := []domain.ExecutionObservation{
		{LatencyMs: 100, Success: true},
		{LatencyMs: 200, Success: false},
		{LatencyMs: 300, Success: true},
		{LatencyMs: 400, Success: true},
	}

	window := computeWindow(observations)
	if window.Count != 4 {
		t.Errorf("expected count 4, got %d", window.Count)
	}
	if window.AverageLatencyMs != 250 {
		t.Errorf("expected average 250, got %.0f", window.AverageLatencyMs)
	}
	if window.ErrorRate != 0.25 {
		t.Errorf("expected error rate 0.25, got %.2f", window.ErrorRate)
	}
	if window.P95LatencyMs != 400 {
		t.Errorf("expected p95 400, got %.0f", window.P95LatencyMs)
	}
}
