// Package race выполняет параллельную гонку взаимозаменяемых путей.
//
// Coordinator вызывает все пути-кандидаты одновременно против одного
// входа ("суперпозиция") и коллапсирует исходы в один результат:
// побеждает первый успешно завершившийся путь, а не самый быстрый
// по пост-фактум замеру. Оставшиеся вызовы отменяются best-effort;
// их поздние исходы не влияют на уже разрешённый запрос, но попадают
// в Metrics Store асинхронно.
//
// Если все пути завершились неуспешно, результат несёт terminal
// состояние decoherence (без победителя) — отличимое от
// "гонка ещё идёт".
//
// Общее время жизни race ограничено собственным таймаутом
// Coordinator'а независимо от отставших вызовов.
package race
