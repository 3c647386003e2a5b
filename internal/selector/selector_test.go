package selector

import (
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/metrics"
)

// --- Weighted Random Tests ---

func TestSelect_EmptyCandidates(t *testing.T) {
	s := New(Config{}, nil)

	_, err := s.Select(nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSelect_SingleCandidate(t *testing.T) {
	s := New(Config{Seed: 1}, nil)

	path, err := s.Select([]domain.Path{{Name: "only", Weight: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path.Name != "only" {
		t.Errorf("expected path only, got %s", path.Name)
	}
}

func TestSelectWeighted_Distribution(t *testing.T) {
	s := New(Config{Seed: 42}, nil)

	candidates := []domain.Path{
		{Name: "heavy", Weight: 9},
		{Name: "light", Weight: 1},
	}

	counts := map[string]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		path, err := s.Select(candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[path.Name]++
	}

	// Ожидаем примерно 90/10 с запасом на дисперсию
	heavyShare := float64(counts["heavy"]) / n
	if heavyShare < 0.85 || heavyShare > 0.95 {
		t.Errorf("heavy share out of range: %.3f (counts: %v)", heavyShare, counts)
	}
	if counts["light"] == 0 {
		t.Error("light path was never selected")
	}
}

func TestSelectWeighted_ZeroStatsFallback(t *testing.T) {
	// Адаптивный режим включён, но статистики нет —
	// выбор должен деградировать к weighted random без ошибок.
	stats := metrics.NewStatsTable()
	s := New(Config{AdaptiveEnabled: true, MinSamples: 20, Seed: 7}, stats)

	candidates := []domain.Path{
		{Name: "a", Weight: 1},
		{Name: "b", Weight: 1},
	}

	for i := 0; i < 100; i++ {
		if _, err := s.Select(candidates); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// --- Thompson Sampling Tests ---

func TestSelectAdaptive_ConvergesToBetterPath(t *testing.T) {
	stats := metrics.NewStatsTable()

	// fast: 100% успех, 50ms; slow: 50% успех, 500ms
	for i := 0; i < 100; i++ {
		stats.Observe("fast", 50*time.Millisecond, true)
		stats.Observe("slow", 500*time.Millisecond, i%2 == 0)
	}

	s := New(Config{AdaptiveEnabled: true, MinSamples: 20, Seed: 42}, stats)

	candidates := []domain.Path{
		{Name: "slow", Weight: 1},
		{Name: "fast", Weight: 1},
	}

	fast := 0
	const n = 1000
	for i := 0; i < n; i++ {
		path, err := s.Select(candidates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path.Name == "fast" {
			fast++
		}
	}

	// Явно лучший путь должен побеждать в подавляющем большинстве
	if float64(fast)/n < 0.9 {
		t.Errorf("fast path selected only %d/%d times", fast, n)
	}
}

func TestSelectAdaptive_BelowMinSamplesUsesWeighted(t *testing.T) {
	stats := metrics.NewStatsTable()

	// 10 наблюдений < MinSamples=20
	for i := 0; i < 10; i++ {
		stats.Observe("a", 10*time.Millisecond, true)
	}

	s := New(Config{AdaptiveEnabled: true, MinSamples: 20, Seed: 3}, stats)

	candidates := []domain.Path{
		{Name: "a", Weight: 1},
		{Name: "b", Weight: 1},
	}

	if s.useAdaptive(candidates) {
		t.Error("adaptive mode should not engage below MinSamples")
	}

	// После добивки до порога — включается
	for i := 0; i < 10; i++ {
		stats.Observe("b", 10*time.Millisecond, true)
	}
	if !s.useAdaptive(candidates) {
		t.Error("adaptive mode should engage at MinSamples")
	}
}

func TestSelectAdaptive_DisabledIgnoresStats(t *testing.T) {
	stats := metrics.NewStatsTable()
	for i := 0; i < 100; i++ {
		stats.Observe("a", 10*time.Millisecond, true)
	}

	s := New(Config{AdaptiveEnabled: false, Seed: 5}, stats)

	if s.useAdaptive([]domain.Path{{Name: "a", Weight: 1}}) {
		t.Error("adaptive mode must stay off when disabled")
	}
}

func TestScore_UnseenPathConservative(t *testing.T) {
	stats := metrics.NewStatsTable()
	for i := 0; i < 50; i++ {
		stats.Observe("seen", 100*time.Millisecond, true)
	}

	s := New(Config{AdaptiveEnabled: true, Seed: 9}, stats)

	// Путь без наблюдений получает консервативную задержку 1000ms:
	// его score почти всегда ниже, чем у здорового быстрого пути.
	seenWins := 0
	for i := 0; i < 200; i++ {
		if s.score("seen") > s.score("unseen") {
			seenWins++
		}
	}
	if seenWins < 150 {
		t.Errorf("seen path should usually outscore unseen, won %d/200", seenWins)
	}
}

// --- Config Tests ---

func TestConfigValidate(t *testing.T) {
	if err := (Config{MinSamples: -1}).Validate(); err == nil {
		t.Error("negative MinSamples should fail validation")
	}
	if err := (Config{MinSamples: 20}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
