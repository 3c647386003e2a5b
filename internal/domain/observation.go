package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionObservation — одно неизменяемое измерение попытки вызова пути.
//
// Observations append-only: после записи в Metrics Store запись
// не мутируется. После ExpiresAt запись считается tombstoned —
// query не должен её возвращать (физическое удаление ленивое).
type ExecutionObservation struct {
	// ID — уникальный идентификатор observation.
	ID uuid.UUID `json:"id"`

	// PathName — имя пути, который вызывался.
	PathName string `json:"path_name"`

	// RequestID — запрос, в рамках которого была попытка.
	RequestID uuid.UUID `json:"request_id"`

	// LatencyMs — задержка попытки в миллисекундах.
	LatencyMs int64 `json:"latency_ms"`

	// Success — завершилась ли попытка успешно.
	Success bool `json:"success"`

	// Strategy — стратегия, в рамках которой была попытка
	// (пустая строка для вызовов внутри race).
	Strategy string `json:"strategy,omitempty"`

	// Timestamp — время попытки.
	Timestamp time.Time `json:"timestamp"`

	// ExpiresAt — время, после которого observation не видна query (TTL).
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired возвращает true, если TTL истёк на момент now.
func (o *ExecutionObservation) Expired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}

// NewObservation создаёт observation с заданным TTL.
func NewObservation(pathName string, requestID uuid.UUID, latency time.Duration, success bool, ttl time.Duration) ExecutionObservation {
	now := time.Now()
	return ExecutionObservation{
		ID:        uuid.New(),
		PathName:  pathName,
		RequestID: requestID,
		LatencyMs: latency.Milliseconds(),
		Success:   success,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}
}
