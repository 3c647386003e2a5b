package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
)

const defaultQueryLimit = 100

// MemoryStore — in-memory реализация Store с TTL.
//
// Observations хранятся per-path в порядке записи. Query читает
// с конца (новые первыми), пропуская истёкшие записи — tombstone
// на чтении. Физическое удаление выполняет Compact.
type MemoryStore struct {
	mu           sync.RWMutex
	observations map[string][]domain.ExecutionObservation
}

// NewMemoryStore создаёт пустой MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		observations: make(map[string][]domain.ExecutionObservation),
	}
}

// Record добавляет observation.
func (s *MemoryStore) Record(_ context.Context, obs domain.ExecutionObservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations[obs.PathName] = append(s.observations[obs.PathName], obs)
	return nil
}

// Query возвращает неистёкшие observations пути не старше since,
// от новых к старым, не более limit.
func (s *MemoryStore) Query(_ context.Context, pathName string, since time.Time, limit int) ([]domain.ExecutionObservation, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	recorded := s.observations[pathName]
	now := time.Now()

	result := make([]domain.ExecutionObservation, 0, limit)
	for i := len(recorded) - 1; i >= 0; i-- {
		obs := &recorded[i]

		// Записи упорядочены по времени: всё левее since можно не смотреть
		if obs.Timestamp.Before(since) {
			break
		}
		if obs.Expired(now) {
			continue
		}

		result = append(result, *obs)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Compact физически удаляет истёкшие observations.
func (s *MemoryStore) Compact(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for path, recorded := range s.observations {
		kept := recorded[:0]
		for i := range recorded {
			if recorded[i].Expired(now) {
				removed++
				continue
			}
			kept = append(kept, recorded[i])
		}
		if len(kept) == 0 {
			delete(s.observations, path)
			continue
		}
		s.observations[path] = kept
	}
	return removed, nil
}

// Size возвращает общее количество записей (включая истёкшие до компакции).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, recorded := range s.observations {
		total += len(recorded)
	}
	return total
}
