package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/shaiso/Superpose/internal/domain"
)

// StatsTable — конкурентная таблица агрегированной статистики путей.
//
// Записи создаются лениво при первом наблюдении и живут до конца
// процесса (истечение оконных observations их не трогает).
// Инкременты атомарны относительно друг друга: потерянных
// обновлений при конкурентных Observe нет.
//
// Таблица — инъецируемый компонент: каждая routing group может
// работать со своей изолированной таблицей.
type StatsTable struct {
	mu    sync.RWMutex
	stats map[string]*domain.PathStats
}

// NewStatsTable создаёт пустую таблицу.
func NewStatsTable() *StatsTable {
	return &StatsTable{stats: make(map[string]*domain.PathStats)}
}

// Observe учитывает одну попытку вызова пути.
func (t *StatsTable) Observe(pathName string, latency time.Duration, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.stats[pathName]
	if !ok {
		entry = &domain.PathStats{PathName: pathName}
		t.stats[pathName] = entry
	}

	entry.TotalCount++
	entry.TotalLatencyMs += latency.Milliseconds()
	if success {
		entry.SuccessCount++
	}
}

// Get возвращает снимок статистики пути.
func (t *StatsTable) Get(pathName string) (domain.PathStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.stats[pathName]
	if !ok {
		return domain.PathStats{}, false
	}
	return *entry, true
}

// TotalObservations возвращает суммарное количество попыток
// по заданным путям (для порога минимальной выборки selector'а).
func (t *StatsTable) TotalObservations(pathNames []string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total int64
	for _, name := range pathNames {
		if entry, ok := t.stats[name]; ok {
			total += entry.TotalCount
		}
	}
	return total
}

// Snapshot возвращает снимок всей таблицы, отсортированный по имени пути.
func (t *StatsTable) Snapshot() []domain.PathStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make([]domain.PathStats, 0, len(t.stats))
	for _, entry := range t.stats {
		snapshot = append(snapshot, *entry)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].PathName < snapshot[j].PathName
	})
	return snapshot
}
