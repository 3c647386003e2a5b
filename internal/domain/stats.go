package domain

// PathStats — агрегированная статистика одного пути.
//
// Инварианты: TotalCount >= SuccessCount >= 0;
// AverageLatencyMs имеет смысл только при TotalCount > 0.
//
// PathStats — снимок для чтения. Конкурентное накопление живёт
// в metrics.StatsTable; здесь только значения.
type PathStats struct {
	// PathName — имя пути.
	PathName string `json:"path_name"`

	// SuccessCount — количество успешных попыток.
	SuccessCount int64 `json:"success_count"`

	// TotalCount — общее количество попыток.
	TotalCount int64 `json:"total_count"`

	// TotalLatencyMs — суммарная задержка всех попыток.
	TotalLatencyMs int64 `json:"total_latency_ms"`
}

// AverageLatencyMs возвращает среднюю задержку (0 при TotalCount == 0).
func (s PathStats) AverageLatencyMs() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.TotalLatencyMs) / float64(s.TotalCount)
}

// SuccessRate возвращает долю успешных попыток (0 при TotalCount == 0).
func (s PathStats) SuccessRate() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalCount)
}

// WindowStats — оконная статистика primary пути для принятия
// решения о стратегии hedging.
type WindowStats struct {
	// Count — количество observations в окне.
	Count int

	// AverageLatencyMs — средняя задержка по окну.
	AverageLatencyMs float64

	// P95LatencyMs — p95 задержки (nearest-rank по отсортированному окну).
	P95LatencyMs float64

	// ErrorRate — доля неуспешных попыток (0 при пустом окне).
	ErrorRate float64
}
