package domain

// StrategyKind — вид стратегии выполнения запроса.
type StrategyKind string

const (
	// StrategyPrimaryOnly — только primary путь, без hedging.
	StrategyPrimaryOnly StrategyKind = "PRIMARY_ONLY"

	// StrategyImmediateHedge — primary и backups запускаются сразу параллельно.
	StrategyImmediateHedge StrategyKind = "IMMEDIATE_HEDGE"

	// StrategyDelayedHedge — backups запускаются по таймеру,
	// если primary не успел ответить.
	StrategyDelayedHedge StrategyKind = "DELAYED_HEDGE"

	// StrategySpeculative — primary плюс fire-and-forget вызовы
	// вероятных следующих запросов.
	StrategySpeculative StrategyKind = "SPECULATIVE"
)

// Strategy — выбранная стратегия с человекочитаемой причиной.
//
// Вычисляется заново для каждого запроса по оконной статистике;
// не персистится.
type Strategy struct {
	// Kind — вид стратегии.
	Kind StrategyKind `json:"kind"`

	// Reason — причина выбора ("high error rate", "high P95 latency", ...).
	Reason string `json:"reason"`
}
