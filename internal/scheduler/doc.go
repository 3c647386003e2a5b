// Package scheduler выполняет фоновое обслуживание Metrics Store.
//
// Maintenance scheduler периодически (по cron-выражению):
//   - компактирует истёкшие observations (Compact активного store)
//   - эмитит stats.snapshot событие со статистикой путей каждой группы
//
// Структура:
//   - scheduler.go — основная логика (Run, Tick)
//   - cron.go      — парсинг cron-выражений и вычисление следующего тика
//
// Использование:
//
//	maint := scheduler.New(scheduler.Config{
//	    Compactor: store,
//	    Stats:     statsTable,
//	    Publisher: publisher,  // опционально
//	    Groups:    cfg.Groups,
//	    CronExpr:  "@every 1m",
//	    Logger:    logger,
//	})
//
//	if err := maint.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer maint.Stop()
package scheduler
