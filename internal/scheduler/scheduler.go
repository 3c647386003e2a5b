package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/mq"
)

const defaultCronExpr = "@every 1m"

// Scheduler — фоновый maintenance-цикл Metrics Store.
type Scheduler struct {
	compactor metrics.Compactor
	stats     *metrics.StatsTable
	publisher *mq.Publisher
	groups    []domain.RoutingGroup
	schedule  cron.Schedule
	logger    *slog.Logger

	wg         sync.WaitGroup
	cancelFunc context.CancelFunc
	startedMu  sync.Mutex
	started    bool
}

// Config — конфигурация Scheduler.
type Config struct {
	Compactor metrics.Compactor      // опционально: store, поддерживающий компактацию
	Stats     *metrics.StatsTable    // источник статистики для снапшотов
	Publisher *mq.Publisher          // опционально: эмиссия stats.snapshot
	Groups    []domain.RoutingGroup  // группы, по которым публикуются снапшоты
	CronExpr  string                 // расписание тиков (default: "@every 1m")
	Logger    *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) (*Scheduler, error) {
	expr := cfg.CronExpr
	if expr == "" {
		expr = defaultCronExpr
	}

	schedule, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		compactor: cfg.Compactor,
		stats:     cfg.Stats,
		publisher: cfg.Publisher,
		groups:    cfg.Groups,
		schedule:  schedule,
		logger:    logger,
	}, nil
}

// Start запускает фоновый цикл. Возвращает ErrAlreadyStarted при
// повторном вызове.
func (s *Scheduler) Start(ctx context.Context) error {
	s.startedMu.Lock()
	if s.started {
		s.startedMu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.startedMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	s.logger.Info("starting maintenance scheduler",
		"next_tick", NextTick(s.schedule, time.Now()).Format(time.RFC3339),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	return nil
}

// Stop останавливает цикл и дожидается завершения текущего тика.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping maintenance scheduler...")

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.wg.Wait()
	s.logger.Info("maintenance scheduler stopped")
}

// run — основной цикл: таймер до следующего тика по cron-расписанию.
func (s *Scheduler) run(ctx context.Context) {
	for {
		next := NextTick(s.schedule, time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("maintenance tick failed", "error", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// Tick выполняет один maintenance-проход.
//
// 1. Компактирует истёкшие observations (если store поддерживает)
// 2. Публикует stats.snapshot по каждой группе
//
// Ошибка компактации не блокирует публикацию снапшотов.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	var compactErr error
	if s.compactor != nil {
		removed, err := s.compactor.Compact(ctx, now)
		if err != nil {
			compactErr = fmt.Errorf("compact observations: %w", err)
			s.logger.Error("compaction failed", "error", err)
		} else if removed > 0 {
			s.logger.Info("compacted expired observations", "removed", removed)
		}
	}

	s.publishSnapshots(ctx)

	s.logger.Debug("maintenance tick completed",
		"next_tick", NextTick(s.schedule, now).Format(time.RFC3339),
	)

	return compactErr
}

// publishSnapshots эмитит stats.snapshot для каждой группы.
// Ошибки одной группы не блокируют остальные.
func (s *Scheduler) publishSnapshots(ctx context.Context) {
	if s.publisher == nil || s.stats == nil {
		return
	}

	for i := range s.groups {
		group := &s.groups[i]

		paths := make([]domain.PathStats, 0, len(group.Paths))
		for _, p := range group.Paths {
			if st, ok := s.stats.Get(p.Name); ok {
				paths = append(paths, st)
			}
		}

		if len(paths) == 0 {
			continue
		}

		s.publisher.PublishStatsSnapshot(ctx, mq.StatsSnapshotPayload{
			Group: group.Name,
			Paths: paths,
		})
	}
}
