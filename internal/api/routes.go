package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Routing
	mux.Handle("POST /api/v1/groups/{group}/route", chain(http.HandlerFunc(h.RouteRequest)))

	// Groups & Paths
	mux.Handle("GET /api/v1/groups", chain(http.HandlerFunc(h.ListGroups)))
	mux.Handle("GET /api/v1/groups/{group}/paths", chain(http.HandlerFunc(h.ListGroupPaths)))

	// Observations
	mux.Handle("GET /api/v1/paths/{name}/observations", chain(http.HandlerFunc(h.ListObservations)))
}
