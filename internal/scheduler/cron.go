package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser поддерживает стандартные 5-польные выражения и дескрипторы
// вида "@every 1m", "@hourly".
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron валидирует cron-выражение и возвращает расписание.
func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidCron, expr, err)
	}
	return schedule, nil
}

// NextTick вычисляет момент следующего запуска после from.
func NextTick(schedule cron.Schedule, from time.Time) time.Time {
	return schedule.Next(from)
}
