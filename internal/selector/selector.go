package selector

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/metrics"
)

// Default configuration values.
const (
	defaultMinSamples = 20

	// defaultLatencyMs — консервативная задержка для путей без наблюдений,
	// чтобы неизвестный путь не выглядел мгновенным.
	defaultLatencyMs = 1000.0
)

// Config — конфигурация Selector.
type Config struct {
	// AdaptiveEnabled включает Thompson Sampling.
	AdaptiveEnabled bool

	// MinSamples — минимальная суммарная выборка по кандидатам,
	// ниже которой используется weighted random (default: 20).
	MinSamples int64

	// Seed — зерно генератора случайных чисел (0 — случайное).
	Seed uint64
}

// Validate возвращает ошибку при некорректной конфигурации.
func (c Config) Validate() error {
	if c.MinSamples < 0 {
		return fmt.Errorf("MinSamples must be non-negative, got %d", c.MinSamples)
	}
	return nil
}

// Selector выбирает путь из взвешенных кандидатов.
//
// Потокобезопасен: источник случайности защищён мьютексом,
// статистика читается через снимки StatsSource.
type Selector struct {
	stats           metrics.StatsSource
	adaptiveEnabled bool
	minSamples      int64

	mu  sync.Mutex
	rng *rand.Rand
}

// New создаёт Selector.
//
// stats может быть nil — тогда selector всегда работает
// в режиме weighted random.
func New(cfg Config, stats metrics.StatsSource) *Selector {
	minSamples := cfg.MinSamples
	if minSamples <= 0 {
		minSamples = defaultMinSamples
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Selector{
		stats:           stats,
		adaptiveEnabled: cfg.AdaptiveEnabled,
		minSamples:      minSamples,
		rng:             rand.New(rand.NewPCG(seed, seed)),
	}
}

// Select выбирает один путь из кандидатов.
//
// Никогда не фейлится на непустом наборе: при недостатке статистики
// или выключенном адаптивном режиме деградирует к weighted random.
func (s *Selector) Select(candidates []domain.Path) (domain.Path, error) {
	if len(candidates) == 0 {
		return domain.Path{}, ErrNoCandidates
	}

	if s.useAdaptive(candidates) {
		return s.selectAdaptive(candidates), nil
	}
	return s.selectWeighted(candidates), nil
}

// useAdaptive возвращает true, если накоплено достаточно наблюдений
// для адаптивного выбора.
func (s *Selector) useAdaptive(candidates []domain.Path) bool {
	if !s.adaptiveEnabled || s.stats == nil {
		return false
	}

	var total int64
	for i := range candidates {
		if st, ok := s.stats.Get(candidates[i].Name); ok {
			total += st.TotalCount
		}
	}
	return total >= s.minSamples
}

// selectWeighted — статический weighted random выбор.
//
// Тянем равномерное значение в [0, totalWeight) и вычитаем веса
// в порядке итерации; первый кандидат, на котором остаток <= 0,
// побеждает. Fallback на первого кандидата страхует от численного
// дрейфа: выбор не может быть пустым.
func (s *Selector) selectWeighted(candidates []domain.Path) domain.Path {
	var totalWeight float64
	for i := range candidates {
		totalWeight += candidates[i].Weight
	}

	s.mu.Lock()
	remainder := s.rng.Float64() * totalWeight
	s.mu.Unlock()

	for i := range candidates {
		remainder -= candidates[i].Weight
		if remainder <= 0 {
			return candidates[i]
		}
	}
	return candidates[0]
}

// selectAdaptive — Thompson Sampling по Beta-распределению.
//
// Для каждого кандидата: alpha = successCount + 1,
// beta = failureCount + 1; сэмпл из Beta(alpha, beta) делится
// на среднюю задержку в секундах (с консервативным default'ом
// для путей без наблюдений). Побеждает максимальный score,
// при равенстве — кандидат, встреченный раньше.
func (s *Selector) selectAdaptive(candidates []domain.Path) domain.Path {
	best := 0
	bestScore := math.Inf(-1)

	for i := range candidates {
		score := s.score(candidates[i].Name)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return candidates[best]
}

// score вычисляет Thompson-score одного пути.
func (s *Selector) score(pathName string) float64 {
	var st domain.PathStats
	if s.stats != nil {
		st, _ = s.stats.Get(pathName)
	}

	alpha := float64(st.SuccessCount) + 1
	beta := float64(st.TotalCount-st.SuccessCount) + 1

	sample := s.sampleBeta(alpha, beta)

	avgLatency := st.AverageLatencyMs()
	if st.TotalCount == 0 || avgLatency <= 0 {
		avgLatency = defaultLatencyMs
	}

	return sample / (avgLatency / 1000)
}
