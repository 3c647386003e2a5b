// Package config загружает и валидирует конфигурацию маршрутизатора.
//
// Конфигурация — JSON-файл, путь задаётся переменной окружения
// SUPERPOSE_CONFIG. Описывает routing groups (пути, веса, пороги
// hedging), параметры адаптивного selector'а и таблицу speculative
// followups.
//
// Валидация fails closed: пустой набор групп, группа без путей
// или путь с неположительным весом — ошибка загрузки, сервис
// не стартует.
package config
