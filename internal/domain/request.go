package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority — приоритет запроса, влияет на speculative стратегию.
type Priority string

const (
	// PriorityNormal — обычный запрос.
	PriorityNormal Priority = "NORMAL"

	// PriorityHigh — high-value запрос (кандидат на speculative).
	PriorityHigh Priority = "HIGH"
)

// RouteRequest — входящий запрос на маршрутизацию.
//
// Payload непрозрачен для core: он передаётся executor'у как есть.
// Kind используется только для speculative lookup вероятных
// следующих запросов.
type RouteRequest struct {
	// ID — уникальный идентификатор запроса.
	ID uuid.UUID `json:"id"`

	// Group — имя routing group.
	Group string `json:"group"`

	// Payload — непрозрачная полезная нагрузка для executor'а.
	Payload map[string]any `json:"payload,omitempty"`

	// Kind — тип запроса для speculative lookup.
	Kind string `json:"kind,omitempty"`

	// Priority — приоритет запроса.
	Priority Priority `json:"priority,omitempty"`

	// SessionID — стабильный идентификатор пользователя/сессии.
	SessionID string `json:"session_id,omitempty"`

	// CreatedAt — время поступления запроса.
	CreatedAt time.Time `json:"created_at"`
}

// HighValue возвращает true для запросов с высоким приоритетом.
func (r *RouteRequest) HighValue() bool {
	return r.Priority == PriorityHigh
}

// NewRouteRequest создаёт запрос с новым ID.
func NewRouteRequest(group string) *RouteRequest {
	return &RouteRequest{
		ID:        uuid.New(),
		Group:     group,
		Priority:  PriorityNormal,
		CreatedAt: time.Now(),
	}
}

// RouteResult — результат маршрутизации: payload победителя
// плюс метаданные стратегии.
type RouteResult struct {
	// RequestID — идентификатор запроса.
	RequestID uuid.UUID `json:"request_id"`

	// Payload — результат победившего executor'а.
	Payload map[string]any `json:"payload,omitempty"`

	// Strategy — использованная стратегия.
	Strategy StrategyKind `json:"strategy"`

	// Reason — причина выбора стратегии.
	Reason string `json:"reason"`

	// WinningSource — имя пути, давшего результат.
	WinningSource string `json:"winning_source"`

	// LatencyMs — задержка от поступления запроса до результата.
	LatencyMs int64 `json:"latency_ms"`

	// HedgeCount — количество запущенных backup-вызовов.
	HedgeCount int `json:"hedge_count"`
}
