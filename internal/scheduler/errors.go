package scheduler

import "errors"

var (
	// ErrInvalidCron — cron-выражение не удалось распарсить.
	ErrInvalidCron = errors.New("invalid cron expression")

	// ErrAlreadyStarted — повторный вызов Start у запущенного scheduler.
	ErrAlreadyStarted = errors.New("scheduler already started")
)
