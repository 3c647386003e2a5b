package race

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/executor"
	"github.com/shaiso/Superpose/internal/metrics"
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

func delayFail(d time.Duration) funcExecutor {
	return func(ctx context.Context, _ map[string]any) (map[string]any, error) {
		select {
		case <-time.After(d):
			return nil, fmt.Errorf("backend down")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func newCoordinator(t *testing.T, registry *executor.Registry, sink *metrics.Sink) *Coordinator {
	t.Helper()
	return New(Config{
		Invoker: executor.NewInvoker(registry, time.Second),
		Sink:    sink,
		Timeout: 2 * time.Second,
	})
}

// --- Race Tests ---

func TestRace_FastestSuccessWins(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("slow", delayOK(50*time.Millisecond, "slow"))
	registry.Register("fast", delayOK(10*time.Millisecond, "fast"))

	c := newCoordinator(t, registry, nil)
	req := domain.NewRouteRequest("g")

	paths := []domain.Path{
		{Name: "slow", Weight: 1},
		{Name: "fast", Weight: 1},
	}

	payload, result, err := c.Race(context.Background(), req, paths, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Winner != "fast" {
		t.Errorf("expected fast to win, got %s", result.Winner)
	}
	if payload["source"] != "fast" {
		t.Errorf("payload must come from the winner, got %v", payload["source"])
	}
	if result.Decoherent {
		t.Error("successful race must not be decoherent")
	}
	if result.CandidateCount != 2 {
		t.Errorf("expected 2 candidates, got %d", result.CandidateCount)
	}
}

func TestRace_WinnerIndependentOfOrder(t *testing.T) {
	// Победа определяется задержкой завершения, не порядком запуска
	registry := executor.NewRegistry()
	registry.Register("slow", delayOK(50*time.Millisecond, "slow"))
	registry.Register("fast", delayOK(10*time.Millisecond, "fast"))

	c := newCoordinator(t, registry, nil)

	paths := []domain.Path{
		{Name: "fast", Weight: 1},
		{Name: "slow", Weight: 1},
	}

	for i := 0; i < 5; i++ {
		req := domain.NewRouteRequest("g")
		_, result, err := c.Race(context.Background(), req, paths, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Winner != "fast" {
			t.Fatalf("expected fast to win, got %s", result.Winner)
		}
	}
}

func TestRace_FailedFastLosesToSlowSuccess(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("broken", delayFail(5*time.Millisecond))
	registry.Register("healthy", delayOK(30*time.Millisecond, "healthy"))

	c := newCoordinator(t, registry, nil)
	req := domain.NewRouteRequest("g")

	paths := []domain.Path{
		{Name: "broken", Weight: 1},
		{Name: "healthy", Weight: 1},
	}

	_, result, err := c.Race(context.Background(), req, paths, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Winner != "healthy" {
		t.Errorf("expected healthy to win, got %s", result.Winner)
	}
}

func TestRace_AllFailDecoherent(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("a", delayFail(5*time.Millisecond))
	registry.Register("b", delayFail(10*time.Millisecond))

	c := newCoordinator(t, registry, nil)
	req := domain.NewRouteRequest("g")

	paths := []domain.Path{
		{Name: "a", Weight: 1},
		{Name: "b", Weight: 1},
	}

	payload, result, err := c.Race(context.Background(), req, paths, 0)
	if !errors.Is(err, ErrAllPathsFailed) {
		t.Fatalf("expected ErrAllPathsFailed, got %v", err)
	}
	if payload != nil {
		t.Error("decoherent race must not return a payload")
	}
	if !result.Decoherent {
		t.Error("result must be marked decoherent")
	}
	if result.Winner != "" {
		t.Errorf("decoherent race must have no winner, got %s", result.Winner)
	}
}

func TestRace_NoPaths(t *testing.T) {
	c := newCoordinator(t, executor.NewRegistry(), nil)
	req := domain.NewRouteRequest("g")

	_, _, err := c.Race(context.Background(), req, nil, 0)
	if !errors.Is(err, ErrNoPaths) {
		t.Fatalf("expected ErrNoPaths, got %v", err)
	}
}

func TestRace_ObservesEveryAttempt(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("fast", delayOK(5*time.Millisecond, "fast"))
	registry.Register("failing", delayFail(10*time.Millisecond))

	store := metrics.NewMemoryStore()
	stats := metrics.NewStatsTable()
	sink := metrics.NewSink(store, stats, time.Hour, nil)

	c := newCoordinator(t, registry, sink)
	req := domain.NewRouteRequest("g")

	paths := []domain.Path{
		{Name: "fast", Weight: 1},
		{Name: "failing", Weight: 1},
	}

	_, _, err := c.Race(context.Background(), req, paths, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Проигравший дописывает своё измерение после коллапса
	deadline := time.After(time.Second)
	for {
		if fast, _ := stats.Get("fast"); fast.TotalCount == 1 {
			if failing, ok := stats.Get("failing"); ok && failing.TotalCount == 1 {
				if failing.SuccessCount != 0 {
					t.Error("failing path must be recorded as failure")
				}
				return
			}
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for loser observation")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRace_CoordinatorTimeout(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("hang", delayOK(time.Minute, "hang"))

	c := New(Config{
		Invoker: executor.NewInvoker(registry, time.Minute),
		Timeout: 50 * time.Millisecond,
	})
	req := domain.NewRouteRequest("g")

	start := time.Now()
	_, result, err := c.Race(context.Background(), req, []domain.Path{{Name: "hang", Weight: 1}}, time.Minute)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrAllPathsFailed) {
		t.Fatalf("expected ErrAllPathsFailed, got %v", err)
	}
	if !result.Decoherent {
		t.Error("timed out race must be decoherent")
	}
	if elapsed > time.Second {
		t.Errorf("race must respect coordinator timeout, took %s", elapsed)
	}
}

func TestRace_CallerCancellation(t *testing.T) {
	registry := executor.NewRegistry()
	registry.Register("hang", delayOK(time.Minute, "hang"))

	c := newCoordinator(t, registry, nil)
	req := domain.NewRouteRequest("g")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, _, err := c.Race(ctx, req, []domain.Path{{Name: "hang", Weight: 1}}, 0)
	if err == nil {
		t.Fatal("expected error after caller cancellation")
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation must unblock the race promptly")
	}
}
