package domain

// RaceResult — терминальный результат одного race ("коллапс суперпозиции").
//
// Записывается ровно один раз. Если ни один путь не успел успешно —
// Winner пустой и Decoherent == true; это отличимо от незавершённого
// race (результата просто ещё нет).
type RaceResult struct {
	// Winner — имя победившего пути (пустое при decoherence).
	Winner string `json:"winner,omitempty"`

	// WinningLatencyMs — задержка победителя.
	WinningLatencyMs int64 `json:"winning_latency_ms"`

	// CandidateCount — количество участвовавших путей.
	CandidateCount int `json:"candidate_count"`

	// SuccessCount — количество путей, завершившихся успешно
	// до коллапса (включая победителя).
	SuccessCount int `json:"success_count"`

	// Decoherent — true, если все пути завершились неуспешно.
	Decoherent bool `json:"decoherent"`
}

// Efficiency возвращает информационный коэффициент эффективности race:
// winningLatency / (candidateCount * 100). Не используется для
// принятия решений.
func (r RaceResult) Efficiency() float64 {
	if r.CandidateCount == 0 {
		return 0
	}
	return float64(r.WinningLatencyMs) / (float64(r.CandidateCount) * 100)
}
