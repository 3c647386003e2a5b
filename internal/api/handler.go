package api

import (
	"log/slog"

	"github.com/shaiso/Superpose/internal/metrics"
	"github.com/shaiso/Superpose/internal/router"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	router *router.Router
	store  metrics.Store
	stats  *metrics.StatsTable
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Router *router.Router
	Store  metrics.Store
	Stats  *metrics.StatsTable
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		router: cfg.Router,
		store:  cfg.Store,
		stats:  cfg.Stats,
		logger: cfg.Logger,
	}
}
