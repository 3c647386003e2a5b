// Package mq эмитит производные факты маршрутизации в RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange, queues, bindings
//   - publisher.go  — fire-and-forget публикация событий
//
// Типы событий:
//   - request.routed  — запрос разрешён (стратегия, победитель, задержка)
//   - hedge.triggered — запущены backup-вызовы
//   - race.resolved   — гонка коллапсировала (или decoherence)
//   - stats.snapshot  — периодический снимок статистики путей
//
// Эмиссия строго fire-and-forget: сбой публикации логируется
// и никогда не влияет на результат запроса. Потребители внешние
// (подсистема корреляции/аналитики), поэтому в пакете нет consumer'а.
package mq
