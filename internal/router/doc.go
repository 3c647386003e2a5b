// Package router — входная точка маршрутизации запросов.
//
// Router связывает компоненты core:
//   - Path Selector выбирает primary путь запроса (weighted random
//     или адаптивно по статистике)
//   - Hedge Orchestrator проводит запрос до терминального исхода
//     по выбранной стратегии
//
// Router отслеживает запросы в полёте и отдаёт API снимки групп
// и статистики путей.
package router
