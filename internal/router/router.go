package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Superpose/internal/domain"
	"github.com/shaiso/Superpose/internal/hedge"
	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/selector"
)

// Router маршрутизирует запросы через сконфигурированные группы.
type Router struct {
	groups   []domain.RoutingGroup
	byName   map[string]*domain.RoutingGroup
	selector *selector.Selector
	hedge    *hedge.Orchestrator
	stats    *metrics.StatsTable

	// Запросы в полёте (requestID → время старта)
	active map[uuid.UUID]time.Time
	mu     sync.RWMutex

	logger *slog.Logger
}

// Config — конфигурация Router.
type Config struct {
	// Groups — routing groups (валидированные).
	Groups []domain.RoutingGroup

	// Selector — выбор primary пути.
	Selector *selector.Selector

	// Hedge — orchestrator стратегий.
	Hedge *hedge.Orchestrator

	// Stats — таблица статистики путей (для API-снимков).
	Stats *metrics.StatsTable

	// Logger
	Logger *slog.Logger
}

// New создаёт Router.
func New(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[string]*domain.RoutingGroup, len(cfg.Groups))
	groups := make([]domain.RoutingGroup, len(cfg.Groups))
	copy(groups, cfg.Groups)
	for i := range groups {
		byName[groups[i].Name] = &groups[i]
	}

	return &Router{
		groups:   groups,
		byName:   byName,
		selector: cfg.Selector,
		hedge:    cfg.Hedge,
		stats:    cfg.Stats,
		active:   make(map[uuid.UUID]time.Time),
		logger:   logger,
	}
}

// Route проводит запрос через selector и hedge orchestrator.
func (r *Router) Route(ctx context.Context, req *domain.RouteRequest) (*domain.RouteResult, error) {
	group, ok := r.byName[req.Group]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, req.Group)
	}

	primary, err := r.selector.Select(group.Paths)
	if err != nil {
		// Валидация конфигурации гарантирует непустые группы;
		// сюда попадает только programming error
		return nil, fmt.Errorf("select primary for %s: %w", req.Group, err)
	}

	r.addActive(req.ID)
	defer r.removeActive(req.ID)

	logger := r.logger.With("request_id", req.ID, "group", req.Group, "primary", primary.Name)
	logger.Debug("routing request")

	result, err := r.hedge.Execute(ctx, req, group, primary)
	if err != nil {
		logger.Warn("request failed", "error", err)
		return nil, err
	}

	logger.Info("request resolved",
		"strategy", result.Strategy,
		"winner", result.WinningSource,
		"latency_ms", result.LatencyMs,
	)
	return result, nil
}

// Groups возвращает сконфигурированные группы в порядке конфигурации.
func (r *Router) Groups() []domain.RoutingGroup {
	return r.groups
}

// GroupByName возвращает группу по имени.
func (r *Router) GroupByName(name string) (*domain.RoutingGroup, bool) {
	group, ok := r.byName[name]
	return group, ok
}

// PathStats возвращает снимок статистики пути.
func (r *Router) PathStats(pathName string) (domain.PathStats, bool) {
	if r.stats == nil {
		return domain.PathStats{}, false
	}
	return r.stats.Get(pathName)
}

// addActive добавляет запрос в полёте.
func (r *Router) addActive(requestID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[requestID] = time.Now()
}

// removeActive удаляет запрос из полёта.
func (r *Router) removeActive(requestID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, requestID)
}

// ActiveRequests возвращает количество запросов в полёте.
func (r *Router) ActiveRequests() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
