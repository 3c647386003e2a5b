// Package api реализует HTTP API роутера.
//
// Структура:
//   - handler.go       — Handler с зависимостями
//   - routes.go        — регистрация маршрутов
//   - middleware.go    — logging и recovery middleware
//   - response.go      — helpers для JSON ответов и ошибок
//   - dto.go           — request/response структуры
//   - route_handler.go — маршрутизация запросов
//   - stats_handler.go — группы, пути, observations
package api
