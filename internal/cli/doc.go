// Package cli реализует инструмент командной строки Superpose.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Superpose API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для отправки запросов через роутер и просмотра
// групп, путей и observations.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Superpose API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	groups, err := client.ListGroups()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: superpose group list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - route: отправка запроса через группу
//   - group: list, paths
//   - path:  observations
//
// Каждая группа создаётся через фабричную функцию (NewGroupCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
