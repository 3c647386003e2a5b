// Package hedge выбирает и выполняет стратегию обработки запроса.
//
// # Обзор
//
// Orchestrator — state machine per-request:
//
//	DECIDING → EXECUTING(strategy) → RESOLVED | FAILED
//
// На фазе Deciding читается оконная статистика primary пути
// (последний час, не более 100 свежих observations) и выбирается
// стратегия, первое совпадение побеждает:
//
//  1. errorRate > 5%        → ImmediateHedge ("high error rate")
//  2. p95 > 2×порога        → ImmediateHedge ("high P95 latency")
//  3. avg > порога          → DelayedHedge ("average latency above threshold")
//  4. speculative + high-value → Speculative ("high-value request optimization")
//  5. иначе                 → PrimaryOnly
//
// # Стратегии
//
//   - PrimaryOnly — один вызов primary с щедрым таймаутом (3×порога)
//   - ImmediateHedge — primary и до maxHedgedRequests backups сразу
//     параллельно; ограниченная гонка через race.Coordinator
//   - DelayedHedge — primary сразу, backups по таймеру порога; падение
//     primary до таймера запускает backups немедленно (запрос не виснет)
//   - Speculative — primary как результат, плюс fire-and-forget вызовы
//     вероятных следующих запросов; их исходы только считаются
//
// # Ошибки и измерения
//
// Падения отдельных попыток поглощаются; запрос фейлится только когда
// не осталось жизнеспособных участников — одной агрегированной ошибкой
// с перечислением всех источников. Каждый терминальный исход, успех
// или нет, даёт ровно одну strategy-tagged запись в Metrics Store.
// Недоступность статистики не фейлит запрос: Deciding деградирует
// к пустому окну.
package hedge
