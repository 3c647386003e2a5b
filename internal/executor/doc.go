// Package executor вызывает backend executors по имени пути.
//
// # Обзор
//
// Executor — непрозрачная единица работы, способная обслужить запрос.
// Core не знает бизнес-логику executor'а: он видит только имя пути,
// payload и результат (или ошибку). Как именно достигается backend —
// HTTP, in-process вызов, managed function — деталь реализации
// конкретного executor'а.
//
// # Ключевые компоненты
//
// ## Executor
//
// Интерфейс вызова одного backend'а:
//
//	type Executor interface {
//	    Invoke(ctx context.Context, payload map[string]any) (map[string]any, error)
//	}
//
// Реализации:
//   - HTTPExecutor  — вызов backend'а по HTTP (POST payload, JSON ответ)
//   - DelayExecutor — синтетический backend с фиксированной задержкой
//     (sandbox-режим и тесты)
//
// ## Registry
//
// Реестр executor'ов по имени пути. Наполняется из конфигурации
// routing groups при старте.
//
// ## Invoker
//
// Invoke-with-timeout: единая точка вызова executor'а с обязательным
// per-attempt таймаутом. Ни один вызов не выполняется без ограничения
// по времени.
//
// # Ошибки
//
// Пакет различает два вида ошибок попытки:
//   - ErrInvocationTimeout — попытка превысила свой таймаут
//   - ErrInvocationFailed  — executor вернул ошибку
//
// Оба вида поглощаются race/hedge-логикой и всплывают к вызывающему
// только когда не осталось жизнеспособных альтернатив.
package executor
