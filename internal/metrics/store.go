package metrics

import (
	"context"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
)

// Store — хранилище execution observations.
//
// Реализации: MemoryStore (in-memory, TTL), repo.ObservationRepo (Postgres).
type Store interface {
	// Record добавляет observation. Append-only, порядконезависимо.
	Record(ctx context.Context, obs domain.ExecutionObservation) error

	// Query возвращает неистёкшие observations пути не старше since,
	// от новых к старым, не более limit.
	Query(ctx context.Context, pathName string, since time.Time, limit int) ([]domain.ExecutionObservation, error)
}

// Compactor — опциональная возможность физического удаления
// истёкших observations (вызывается maintenance scheduler'ом).
type Compactor interface {
	// Compact удаляет observations с истёкшим TTL.
	// Возвращает количество удалённых записей.
	Compact(ctx context.Context, now time.Time) (int, error)
}

// StatsSource — read-доступ к агрегированной статистике путей.
//
// Выделен в интерфейс, чтобы selector и hedge получали статистику
// через инъекцию, а тесты подставляли детерминированные значения.
// Несколько routing groups могут работать с изолированными таблицами.
type StatsSource interface {
	// Get возвращает статистику пути (false, если наблюдений не было).
	Get(pathName string) (domain.PathStats, bool)
}
