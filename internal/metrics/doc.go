// Package metrics хранит оконные измерения попыток вызова путей.
//
// Структура:
//   - store.go  — интерфейс Store (record/query)
//   - memory.go — in-memory реализация с TTL и ленивой компакцией
//   - stats.go  — StatsTable: конкурентная агрегированная статистика путей
//
// Store append-only: observations не мутируются, после TTL не видны
// в query (физическое удаление ленивое, через Compact).
//
// Недоступность store никогда не роняет запрос: вызывающие компоненты
// деградируют к безопасным значениям по умолчанию.
package metrics
