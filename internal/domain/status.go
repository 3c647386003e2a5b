package domain

// RequestStatus — статус обработки запроса.
//
// Жизненный цикл:
//
//	DECIDING → EXECUTING → RESOLVED
//	                     ↘ FAILED
type RequestStatus string

const (
	// RequestStatusDeciding — читается оконная статистика,
	// выбирается стратегия.
	RequestStatusDeciding RequestStatus = "DECIDING"

	// RequestStatusExecuting — стратегия выполняется.
	RequestStatusExecuting RequestStatus = "EXECUTING"

	// RequestStatusResolved — получен результат от одного из путей.
	RequestStatusResolved RequestStatus = "RESOLVED"

	// RequestStatusFailed — все участники завершились неуспешно.
	RequestStatusFailed RequestStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusResolved, RequestStatusFailed:
		return true
	default:
		return false
	}
}
